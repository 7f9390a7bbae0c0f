package gitdiff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/nikola43/gogit-absorb/internal/index"
	"github.com/nikola43/gogit-absorb/internal/objstore"
)

// ComputeTreeDiff computes the Diff between two trees, with zero context
// lines, as the version-control backend interface of spec §6 requires: a
// stack entry's patch is this Diff restricted to one file.
func ComputeTreeDiff(root, oldTree, newTree string) (*Diff, error) {
	oldFlat, err := objstore.FlattenTree(root, oldTree, "")
	if err != nil {
		return nil, err
	}
	newFlat, err := objstore.FlattenTree(root, newTree, "")
	if err != nil {
		return nil, err
	}
	return diffFlatMaps(root, oldFlat, newFlat)
}

// ComputeIndexDiff computes the Diff between a tree (typically HEAD) and
// the current index contents — the tree↔index comparison the orchestrator
// decomposes into per-hunk work.
func ComputeIndexDiff(root, oldTree string, idx *index.Index) (*Diff, error) {
	oldFlat, err := objstore.FlattenTree(root, oldTree, "")
	if err != nil {
		return nil, err
	}
	newFlat := make(map[string]string, len(idx.Entries))
	for _, e := range idx.Entries {
		newFlat[e.Path] = e.Hash
	}
	return diffFlatMaps(root, oldFlat, newFlat)
}

func diffFlatMaps(root string, oldFlat, newFlat map[string]string) (*Diff, error) {
	var patches []Patch

	for path, oldHash := range oldFlat {
		newHash, stillPresent := newFlat[path]
		switch {
		case !stillPresent:
			patches = append(patches, Patch{OldPath: path, NewPath: path, Status: StatusDeleted})
		case newHash != oldHash:
			oldContent, err := objstore.ReadBlob(root, oldHash)
			if err != nil {
				return nil, err
			}
			newContent, err := objstore.ReadBlob(root, newHash)
			if err != nil {
				return nil, err
			}
			hunks := computeHunks(oldContent, newContent)
			if len(hunks) == 0 {
				continue
			}
			patches = append(patches, Patch{OldPath: path, NewPath: path, Status: StatusModified, Hunks: hunks})
		}
	}
	for path := range newFlat {
		if _, existed := oldFlat[path]; !existed {
			patches = append(patches, Patch{NewPath: path, Status: StatusAdded})
		}
	}

	return NewDiff(patches)
}

// computeHunks builds the zero-context hunk list between oldContent and
// newContent using diffmatchpatch's documented line-mode idiom: hash each
// whole line down to a single rune so the generic Myers diff operates on
// lines instead of characters, then expand the result back into the
// original line text.
func computeHunks(oldContent, newContent []byte) []Hunk {
	dmp := diffmatchpatch.New()

	oldText, newText := string(oldContent), string(newContent)
	oldTrailingNewline := oldText == "" || strings.HasSuffix(oldText, "\n")
	newTrailingNewline := newText == "" || strings.HasSuffix(newText, "\n")

	charsOld, charsNew, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(charsOld, charsNew, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	oldLineNo, newLineNo := 1, 1
	oldTotalLines := countLines(oldText)
	newTotalLines := countLines(newText)

	var hunks []Hunk
	var pendingRemoved, pendingAdded [][]byte
	removedStart, addedStart := 0, 0

	flush := func() {
		if len(pendingRemoved) == 0 && len(pendingAdded) == 0 {
			return
		}
		h := Hunk{
			Removed: Block{Start: removedStart, Lines: pendingRemoved, TrailingNewline: true},
			Added:   Block{Start: addedStart, Lines: pendingAdded, TrailingNewline: true},
		}
		if len(pendingRemoved) > 0 && removedStart+len(pendingRemoved)-1 == oldTotalLines {
			h.Removed.TrailingNewline = oldTrailingNewline
		}
		if len(pendingAdded) > 0 && addedStart+len(pendingAdded)-1 == newTotalLines {
			h.Added.TrailingNewline = newTrailingNewline
		}
		hunks = append(hunks, h)
		pendingRemoved, pendingAdded = nil, nil
	}

	for _, d := range diffs {
		lines := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			oldLineNo += len(lines)
			newLineNo += len(lines)
		case diffmatchpatch.DiffDelete:
			if len(pendingRemoved) == 0 {
				removedStart = oldLineNo
			}
			pendingRemoved = append(pendingRemoved, lines...)
			oldLineNo += len(lines)
		case diffmatchpatch.DiffInsert:
			if len(pendingAdded) == 0 {
				addedStart = newLineNo
			}
			pendingAdded = append(pendingAdded, lines...)
			newLineNo += len(lines)
		}
	}
	flush()

	return hunks
}

// splitLines splits a line-mode diff chunk back into individual line byte
// slices, each without its trailing newline.
func splitLines(text string) [][]byte {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return [][]byte{[]byte("")}
	}
	parts := strings.Split(text, "\n")
	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = []byte(p)
	}
	return out
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
