package index

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nikola43/gogit-absorb/internal/objstore"
	"github.com/nikola43/gogit-absorb/internal/repo"
)

// AddAll stages every file in the repository under pathspec (relative to
// root; "." means the whole worktree), writing a blob for each and
// updating the entry in place. It mirrors `git add -A <pathspec>` closely
// enough for the orchestrator's auto-stage path (spec §4.6). When pathspec
// is ".", entries for files that no longer exist are removed from the
// index; for any other pathspec, existing entries are left in place.
func AddAll(root, pathspec string) error {
	idx, err := ReadIndex(root)
	if err != nil {
		return err
	}

	walkRoot := filepath.Join(root, pathspec)
	seen := make(map[string]bool)

	err = filepath.Walk(walkRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == repo.GogitDir {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		if strings.HasPrefix(relPath, repo.GogitDir) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		hash, err := objstore.WriteBlob(root, content)
		if err != nil {
			return err
		}

		mode := uint32(0100644)
		if info.Mode()&0111 != 0 {
			mode = 0100755
		}

		idx.AddEntry(Entry{
			Ctime: uint32(info.ModTime().Unix()),
			Mtime: uint32(info.ModTime().Unix()),
			Size:  uint32(info.Size()),
			Hash:  hash,
			Mode:  mode,
			Path:  relPath,
		})
		seen[relPath] = true
		return nil
	})
	if err != nil {
		return err
	}

	if pathspec == "." {
		var stale []string
		for _, e := range idx.Entries {
			if !seen[e.Path] {
				stale = append(stale, e.Path)
			}
		}
		for _, p := range stale {
			idx.RemoveEntry(p)
		}
	}

	return WriteIndex(root, idx)
}
