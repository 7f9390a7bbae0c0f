package cmd

import (
	"fmt"

	"github.com/nikola43/gogit-absorb/internal/refstore"
	"github.com/nikola43/gogit-absorb/internal/repo"
)

func Branch(name string) error {
	root, err := repo.Find()
	if err != nil {
		return err
	}

	if name == "" {
		return listBranches(root)
	}

	return createBranch(root, name)
}

func listBranches(root string) error {
	branches, err := refstore.ListBranches(root)
	if err != nil {
		return err
	}

	current, err := refstore.CurrentBranch(root)
	if err != nil {
		return err
	}

	for _, b := range branches {
		if b == current {
			fmt.Printf("* %s\n", b)
		} else {
			fmt.Printf("  %s\n", b)
		}
	}
	return nil
}

func createBranch(root, name string) error {
	// Check if branch already exists
	existing, err := refstore.ReadRef(root, refstore.BranchRef(name))
	if err != nil {
		return err
	}
	if existing != "" {
		return fmt.Errorf("branch '%s' already exists", name)
	}

	// Get current HEAD commit
	hash, err := refstore.ResolveHead(root)
	if err != nil {
		return err
	}
	if hash == "" {
		return fmt.Errorf("cannot create branch: no commits yet")
	}

	if err := refstore.WriteRef(root, refstore.BranchRef(name), hash); err != nil {
		return err
	}

	fmt.Printf("Created branch '%s' at %s\n", name, hash[:7])
	return nil
}
