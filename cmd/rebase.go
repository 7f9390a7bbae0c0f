package cmd

import (
	"fmt"

	"github.com/nikola43/gogit-absorb/internal/rebase"
	"github.com/nikola43/gogit-absorb/internal/repo"
)

// Rebase replays the current branch's commits onto baseHash, folding any
// fixup!/squash! commits into the commits they target, and reports the new
// tip.
func Rebase(baseHash string) error {
	root, err := repo.Find()
	if err != nil {
		return err
	}
	newTip, err := rebase.Run(root, rebase.Options{BaseHash: baseHash})
	if err != nil {
		return err
	}
	fmt.Printf("Successfully rebased onto %s.\n", newTip[:7])
	return nil
}
