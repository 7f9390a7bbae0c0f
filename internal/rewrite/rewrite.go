// Package rewrite implements the tree rewriter: applying a single hunk to
// a content-addressed tree to produce a new tree identifier, per spec
// §4.4.
package rewrite

import (
	"bytes"

	"github.com/nikola43/gogit-absorb/internal/gitdiff"
	"github.com/nikola43/gogit-absorb/internal/objstore"
)

// ApplyHunkToTree returns a tree identical to baseTree except that the
// blob at path has hunk applied to it: the lines strictly above the
// hunk's starting line, followed by the hunk's added lines, followed by
// the lines strictly after the removed region.
func ApplyHunkToTree(root, baseTree string, hunk gitdiff.Hunk, path string) (string, error) {
	builder := objstore.NewTreeBuilder(root)

	blobHash, mode, err := builder.GetBlob(baseTree, path)
	if err != nil {
		return "", err
	}
	content, err := objstore.ReadBlob(root, blobHash)
	if err != nil {
		return "", err
	}

	newContent := ApplyHunkToContent(content, hunk)

	newBlobHash, err := objstore.WriteBlob(root, newContent)
	if err != nil {
		return "", err
	}

	newTree, err := builder.InsertBlob(baseTree, path, newBlobHash)
	if err != nil {
		return "", err
	}
	_ = mode // mode is preserved untouched by InsertBlob

	return newTree, nil
}

// ApplyHunkToContent performs the byte-level splice described in spec
// §4.4: everything up to and including the newline ending the anchor line
// immediately above the hunk is preserved, then the added lines are
// emitted, then removed.Lines's line count worth of terminators are
// skipped forward, then the remainder is emitted verbatim.
func ApplyHunkToContent(content []byte, hunk gitdiff.Hunk) []byte {
	prevRemoved, _, _, _ := hunk.Anchors()

	prefixEnd := 0
	if prevRemoved > 0 {
		prefixEnd = offsetAfterLine(content, prevRemoved)
	}

	suffixStart := prefixEnd
	for i := 0; i < len(hunk.Removed.Lines); i++ {
		nl := bytes.IndexByte(content[suffixStart:], '\n')
		if nl < 0 {
			suffixStart = len(content)
			break
		}
		suffixStart += nl + 1
	}

	var out bytes.Buffer
	out.Write(content[:prefixEnd])
	for i, line := range hunk.Added.Lines {
		out.Write(line)
		if i < len(hunk.Added.Lines)-1 || hunk.Added.TrailingNewline || suffixStart < len(content) {
			out.WriteByte('\n')
		}
	}
	out.Write(content[suffixStart:])

	return out.Bytes()
}

// offsetAfterLine returns the byte offset immediately after the newline
// terminating the n-th line (1-indexed) of content. If content has fewer
// than n lines, it returns len(content).
func offsetAfterLine(content []byte, n int) int {
	offset := 0
	for i := 0; i < n; i++ {
		nl := bytes.IndexByte(content[offset:], '\n')
		if nl < 0 {
			return len(content)
		}
		offset += nl + 1
	}
	return offset
}
