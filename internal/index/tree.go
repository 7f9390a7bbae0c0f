package index

import (
	"fmt"

	"github.com/nikola43/gogit-absorb/internal/objstore"
)

// BuildTree writes a tree hierarchy for the current index contents and
// returns the root tree hash. It is the index-to-tree half of a commit.
func (idx *Index) BuildTree(root string) (string, error) {
	leaves := make([]objstore.TreeLeaf, len(idx.Entries))
	for i, e := range idx.Entries {
		leaves[i] = objstore.TreeLeaf{
			Path: e.Path,
			Mode: fmt.Sprintf("%o", e.Mode),
			Hash: e.Hash,
		}
	}
	return objstore.BuildTree(root, leaves)
}

// ReadFromTree replaces the index's entries with a flattened view of
// treeHash, as the orchestrator does when it un-stages the part of the
// working tree that was successfully folded into fixup commits.
func ReadFromTree(root, treeHash string) (*Index, error) {
	flat, err := objstore.FlattenTree(root, treeHash, "")
	if err != nil {
		return nil, err
	}

	idx := &Index{}
	for path, hash := range flat {
		idx.AddEntry(Entry{
			Path: path,
			Hash: hash,
			Mode: 0100644,
		})
	}
	return idx, nil
}

// IsEmpty reports whether the index has no staged entries.
func (idx *Index) IsEmpty() bool {
	return len(idx.Entries) == 0
}
