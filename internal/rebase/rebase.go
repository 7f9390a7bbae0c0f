// Package rebase implements the "invocation of an external rebase
// process" spec §1/§4.6 treats as an out-of-scope collaborator: an
// interactive-autosquash-autostash rebase, folding fixup!/squash! commits
// into the commits they target and dropping them from the resulting
// history. Since the backend object model here is not wire-compatible
// with real git, this is the engine's own rebase rather than a shell-out
// to the real `git rebase` binary.
package rebase

import (
	"strings"

	"github.com/nikola43/gogit-absorb/internal/gitdiff"
	"github.com/nikola43/gogit-absorb/internal/objstore"
	"github.com/nikola43/gogit-absorb/internal/refstore"
	"github.com/nikola43/gogit-absorb/internal/rewrite"
)

// Options configures a rebase run.
type Options struct {
	// BaseHash is the commit new history is rebuilt on top of; every
	// commit strictly after it on the first-parent chain to HEAD is
	// replayed.
	BaseHash string
}

const (
	fixupPrefix  = "fixup! "
	squashPrefix = "squash! "
)

// Run performs the autosquash rebase and updates the current branch (or
// HEAD, if detached) to the resulting tip.
func Run(root string, opts Options) (string, error) {
	headHash, err := refstore.ResolveHead(root)
	if err != nil {
		return "", err
	}

	chain, err := commitChain(root, headHash, opts.BaseHash)
	if err != nil {
		return "", err
	}

	type node struct {
		hash   string
		commit *objstore.Commit
	}
	var normals []node
	type fixup struct {
		node
		target string
	}
	var fixups []fixup

	for _, c := range chain {
		if target, ok := fixupTarget(c.commit.Message); ok {
			fixups = append(fixups, fixup{node: node{hash: c.hash, commit: c.commit}, target: target})
			continue
		}
		normals = append(normals, node{hash: c.hash, commit: c.commit})
	}

	baseCommit, err := objstore.ReadCommit(root, opts.BaseHash)
	if err != nil {
		return "", err
	}

	newParent := opts.BaseHash
	newParentTree := baseCommit.TreeHash

	for _, n := range normals {
		tree, err := replayCommit(root, n.hash, n.commit, newParentTree)
		if err != nil {
			return "", err
		}
		for _, f := range fixups {
			if f.target != n.hash && f.target != summary(n.commit.Message) {
				continue
			}
			tree, err = replayCommit(root, f.hash, f.commit, tree)
			if err != nil {
				return "", err
			}
		}

		author := objstore.ParseSignature(n.commit.Author)
		committer := objstore.ParseSignature(n.commit.Committer)
		newHash, err := objstore.WriteCommitSigned(root, tree, []string{newParent}, author, committer, n.commit.Message)
		if err != nil {
			return "", err
		}
		newParent = newHash
		newParentTree = tree
	}

	branch, err := refstore.CurrentBranch(root)
	if err != nil {
		return "", err
	}
	if branch == "" {
		if err := refstore.UpdateHead(root, newParent); err != nil {
			return "", err
		}
	} else if err := refstore.WriteRef(root, refstore.BranchRef(branch), newParent); err != nil {
		return "", err
	}

	return newParent, nil
}

type chainEntry struct {
	hash   string
	commit *objstore.Commit
}

// commitChain returns the first-parent commits strictly between baseHash
// (exclusive) and headHash (inclusive), oldest first.
func commitChain(root, headHash, baseHash string) ([]chainEntry, error) {
	var reversed []chainEntry
	hash := headHash
	for hash != "" && hash != baseHash {
		c, err := objstore.ReadCommit(root, hash)
		if err != nil {
			return nil, err
		}
		reversed = append(reversed, chainEntry{hash: hash, commit: c})
		if len(c.Parents) == 0 {
			break
		}
		hash = c.Parents[0]
	}
	chain := make([]chainEntry, len(reversed))
	for i, e := range reversed {
		chain[len(reversed)-1-i] = e
	}
	return chain, nil
}

// fixupTarget extracts the target from a "fixup! <target>" or
// "squash! <target>" first message line.
func fixupTarget(message string) (string, bool) {
	first := summary(message)
	if strings.HasPrefix(first, fixupPrefix) {
		return strings.TrimPrefix(first, fixupPrefix), true
	}
	if strings.HasPrefix(first, squashPrefix) {
		return strings.TrimPrefix(first, squashPrefix), true
	}
	return "", false
}

func summary(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}

// replayCommit reapplies the changes commit introduced (relative to its
// own first parent) onto baseTree, returning the resulting tree. This is
// the cherry-pick-style replay autosquash depends on: fixups are folded
// into their target by replaying them immediately after the target, onto
// the target's own rewritten tree, rather than by reusing the fixup's
// original (head-relative) tree verbatim.
func replayCommit(root, hash string, commit *objstore.Commit, baseTree string) (string, error) {
	parentTree, err := parentTreeOf(root, commit)
	if err != nil {
		return "", err
	}
	diff, err := gitdiff.ComputeTreeDiff(root, parentTree, commit.TreeHash)
	if err != nil {
		return "", err
	}

	flat, err := objstore.FlattenTree(root, baseTree, "")
	if err != nil {
		return "", err
	}

	var commitFlat map[string]string
	needsCommitFlat := false
	for _, p := range diff.Patches {
		if p.Status == gitdiff.StatusAdded {
			needsCommitFlat = true
		}
	}
	if needsCommitFlat {
		commitFlat, err = objstore.FlattenTree(root, commit.TreeHash, "")
		if err != nil {
			return "", err
		}
	}

	for _, patch := range diff.Patches {
		switch patch.Status {
		case gitdiff.StatusDeleted:
			delete(flat, patch.OldPath)
		case gitdiff.StatusAdded:
			flat[patch.NewPath] = commitFlat[patch.NewPath]
		case gitdiff.StatusModified:
			blobHash, ok := flat[patch.NewPath]
			if !ok {
				continue
			}
			content, err := objstore.ReadBlob(root, blobHash)
			if err != nil {
				return "", err
			}
			newContent := applyHunksInOrder(content, patch.Hunks)
			newHash, err := objstore.WriteBlob(root, newContent)
			if err != nil {
				return "", err
			}
			flat[patch.NewPath] = newHash
		}
	}

	leaves := make([]objstore.TreeLeaf, 0, len(flat))
	for path, hash := range flat {
		leaves = append(leaves, objstore.TreeLeaf{Path: path, Mode: "100644", Hash: hash})
	}
	return objstore.BuildTree(root, leaves)
}

// applyHunksInOrder applies every hunk of one file's patch in sequence,
// shifting each by the cumulative line-count change of the hunks already
// applied — the same bookkeeping the orchestrator itself uses for
// multi-hunk patches (spec §4.6).
func applyHunksInOrder(content []byte, hunks []gitdiff.Hunk) []byte {
	appliedOffset := 0
	for _, h := range hunks {
		shifted := h.ShiftAdded(-appliedOffset).ShiftBoth(appliedOffset)
		content = rewrite.ApplyHunkToContent(content, shifted)
		appliedOffset += h.ChangedOffset()
	}
	return content
}

// parentTreeOf returns the tree hash of commit's first parent, or the
// empty tree if commit is a root commit.
func parentTreeOf(root string, commit *objstore.Commit) (string, error) {
	if len(commit.Parents) == 0 {
		return objstore.BuildTree(root, nil)
	}
	parent, err := objstore.ReadCommit(root, commit.Parents[0])
	if err != nil {
		return "", err
	}
	return parent.TreeHash, nil
}
