// Package stack implements the working-stack builder: the first-parent,
// topologically-sorted walk from HEAD that bounds the set of ancestor
// commits eligible to receive a fixup.
package stack

import (
	"fmt"

	"github.com/nikola43/gogit-absorb/internal/gitcfg"
	"github.com/nikola43/gogit-absorb/internal/gitdiff"
	"github.com/nikola43/gogit-absorb/internal/objstore"
	"github.com/nikola43/gogit-absorb/internal/refstore"
)

// EndReason is why the stack stopped growing.
type EndReason int

const (
	ReachedRoot EndReason = iota
	ReachedMergeCommit
	ReachedAnotherAuthor
	ReachedLimit
	CommitsHiddenByBase
	CommitsHiddenByBranches
)

func (r EndReason) String() string {
	switch r {
	case ReachedMergeCommit:
		return "reached a merge commit"
	case ReachedAnotherAuthor:
		return "reached a commit from another author"
	case ReachedLimit:
		return "reached the stack limit"
	case CommitsHiddenByBase:
		return "commits hidden by base"
	case CommitsHiddenByBranches:
		return "commits hidden by other branches"
	default:
		return "reached the root commit"
	}
}

// Entry is one candidate in the working stack: the commit itself, plus its
// Diff against its first parent (empty tree, for a root commit), ready for
// the commutation engine to walk against.
type Entry struct {
	Hash   string
	Commit *objstore.Commit
	Diff   *gitdiff.Diff
}

// Options configures the stack walk (the --base/--no-limit/--force-* CLI
// surface of spec §6).
type Options struct {
	Base        string
	NoLimit     bool
	ForceAuthor bool
	ForceDetach bool
}

// WorkingStack builds the candidate ancestor list starting at HEAD, per
// spec §4.3: first-parent-only, topologically ordered (trivially true of a
// first-parent chain), hiding competing local branches or a user-supplied
// base, and stopping per the termination rules in the documented order.
func WorkingStack(root string, opts Options, cfg *gitcfg.Store) ([]Entry, EndReason, error) {
	detached, err := refstore.IsDetached(root)
	if err != nil {
		return nil, ReachedRoot, err
	}
	if detached && !opts.ForceDetach {
		return nil, ReachedRoot, fmt.Errorf("HEAD is not a branch")
	}

	headHash, err := refstore.ResolveHead(root)
	if err != nil {
		return nil, ReachedRoot, err
	}
	if headHash == "" {
		return nil, ReachedRoot, nil
	}

	hide := make(map[string]bool)
	hiddenByBase := false
	hiddenByBranches := false

	if opts.Base != "" {
		baseHash, err := refstore.ReadRef(root, opts.Base)
		if err != nil {
			return nil, ReachedRoot, err
		}
		if baseHash == "" {
			baseHash = opts.Base
		}
		ancestors, err := refstore.FirstParentAncestors(root, baseHash)
		if err != nil {
			return nil, ReachedRoot, err
		}
		hide = ancestors
		hiddenByBase = true
	} else {
		currentBranch, err := refstore.CurrentBranch(root)
		if err != nil {
			return nil, ReachedRoot, err
		}
		branches, err := refstore.ListBranches(root)
		if err != nil {
			return nil, ReachedRoot, err
		}
		for _, b := range branches {
			if b == currentBranch {
				continue
			}
			branchHash, err := refstore.ReadRef(root, refstore.BranchRef(b))
			if err != nil {
				return nil, ReachedRoot, err
			}
			if branchHash == "" {
				continue
			}
			hide[branchHash] = true
			hiddenByBranches = true
		}
	}

	sig := objstore.CurrentSignature()
	maxStack := cfg.MaxStack()

	commits, hashes, hitHidden, err := refstore.RevWalk(root, headHash, hide)
	if err != nil {
		return nil, ReachedRoot, err
	}

	var entries []Entry
	for i, commit := range commits {
		hash := hashes[i]

		if len(commit.Parents) > 1 {
			return entries, ReachedMergeCommit, nil
		}

		if !opts.ForceAuthor {
			author := objstore.ParseSignature(commit.Author)
			if author.Name != sig.Name || author.Email != sig.Email {
				return entries, ReachedAnotherAuthor, nil
			}
		}

		if !opts.NoLimit && opts.Base == "" && len(entries) == maxStack {
			return entries, ReachedLimit, nil
		}

		parentTree := ""
		if len(commit.Parents) == 1 {
			parentCommit, err := objstore.ReadCommit(root, commit.Parents[0])
			if err != nil {
				return nil, ReachedRoot, err
			}
			parentTree = parentCommit.TreeHash
		} else {
			parentTree, err = objstore.BuildTree(root, nil)
			if err != nil {
				return nil, ReachedRoot, err
			}
		}

		diff, err := gitdiff.ComputeTreeDiff(root, parentTree, commit.TreeHash)
		if err != nil {
			return nil, ReachedRoot, err
		}

		entries = append(entries, Entry{Hash: hash, Commit: commit, Diff: diff})

		if len(commit.Parents) == 0 {
			return entries, ReachedRoot, nil
		}
	}

	if hitHidden {
		if hiddenByBase {
			return entries, CommitsHiddenByBase, nil
		}
		if hiddenByBranches {
			return entries, CommitsHiddenByBranches, nil
		}
	}
	return entries, ReachedRoot, nil
}

// SummaryCounts maps each commit's one-line summary (the first line of its
// message) to how many entries in the stack share it — used to decide
// whether addressing a fixup's target by summary is unambiguous or must
// fall back to the full hash.
func SummaryCounts(entries []Entry) map[string]int {
	counts := make(map[string]int, len(entries))
	for _, e := range entries {
		counts[summary(e.Commit.Message)]++
	}
	return counts
}

func summary(message string) string {
	for i, r := range message {
		if r == '\n' {
			return message[:i]
		}
	}
	return message
}
