package cmd

import (
	"fmt"

	"github.com/nikola43/gogit-absorb/internal/objstore"
	"github.com/nikola43/gogit-absorb/internal/refstore"
	"github.com/nikola43/gogit-absorb/internal/repo"
)

func Log() error {
	root, err := repo.Find()
	if err != nil {
		return err
	}

	hash, err := refstore.ResolveHead(root)
	if err != nil {
		return err
	}
	if hash == "" {
		fmt.Println("No commits yet")
		return nil
	}

	for hash != "" {
		commit, err := objstore.ReadCommit(root, hash)
		if err != nil {
			return err
		}

		fmt.Printf("commit %s\n", hash)
		fmt.Printf("Author: %s\n", commit.Author)
		fmt.Println()
		fmt.Printf("    %s\n", commit.Message)
		fmt.Println()

		if len(commit.Parents) > 0 {
			hash = commit.Parents[0]
		} else {
			hash = ""
		}
	}

	return nil
}
