package cmd

import (
	"fmt"

	"github.com/nikola43/gogit-absorb/internal/index"
	"github.com/nikola43/gogit-absorb/internal/objstore"
	"github.com/nikola43/gogit-absorb/internal/refstore"
	"github.com/nikola43/gogit-absorb/internal/repo"
)

func Commit(message string) error {
	root, err := repo.Find()
	if err != nil {
		return err
	}

	idx, err := index.ReadIndex(root)
	if err != nil {
		return err
	}

	if len(idx.Entries) == 0 {
		return fmt.Errorf("nothing to commit")
	}

	// Build tree from index
	treeHash, err := idx.BuildTree(root)
	if err != nil {
		return err
	}

	// Get parent commit
	var parents []string
	headHash, err := refstore.ResolveHead(root)
	if err != nil {
		return err
	}
	if headHash != "" {
		parents = append(parents, headHash)
	}

	commitHash, err := writeCommitAndUpdateRef(root, treeHash, parents, message)
	if err != nil {
		return err
	}

	branch, _ := refstore.CurrentBranch(root)
	fmt.Printf("[%s %s] %s\n", branchDisplay(branch), commitHash[:7], message)
	return nil
}

var writeCommitFn = objstore.WriteCommit

func writeCommitAndUpdateRef(root, treeHash string, parents []string, message string) (string, error) {
	// Create commit object
	commitHash, err := writeCommitFn(root, treeHash, parents, message)
	if err != nil {
		return "", err
	}

	// Update branch ref
	branch, err := refstore.CurrentBranch(root)
	if err != nil {
		return "", err
	}
	if branch != "" {
		if err := refstore.WriteRef(root, refstore.BranchRef(branch), commitHash); err != nil {
			return "", err
		}
	} else {
		// Detached HEAD
		if err := refstore.UpdateHead(root, commitHash); err != nil {
			return "", err
		}
	}

	return commitHash, nil
}

func branchDisplay(branch string) string {
	if branch == "" {
		return "detached HEAD"
	}
	return branch
}
