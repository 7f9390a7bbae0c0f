// Package absorb implements the orchestrator: the top-level pipeline that
// builds the working stack, decomposes the index diff into hunks, assigns
// each hunk to a destination commit via the commutation engine, and
// materialises fixup commits (spec §4.6).
package absorb

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nikola43/gogit-absorb/internal/announce"
	"github.com/nikola43/gogit-absorb/internal/commute"
	"github.com/nikola43/gogit-absorb/internal/gitcfg"
	"github.com/nikola43/gogit-absorb/internal/gitdiff"
	"github.com/nikola43/gogit-absorb/internal/index"
	"github.com/nikola43/gogit-absorb/internal/objstore"
	"github.com/nikola43/gogit-absorb/internal/rebase"
	"github.com/nikola43/gogit-absorb/internal/refstore"
	"github.com/nikola43/gogit-absorb/internal/rewrite"
	"github.com/nikola43/gogit-absorb/internal/stack"
)

// Config is the CLI surface of spec §6, already resolved against the
// repository configuration store.
type Config struct {
	Base              string
	DryRun            bool
	NoLimit           bool
	ForceAuthor       bool
	ForceDetach       bool
	Verbose           bool
	AndRebase         bool
	RebaseArgs        []string
	WholeFile         bool
	OneFixupPerCommit bool
	Squash            bool
	Message           string
}

// hunkWithCommit is the transient record built during the commutation
// loop and consumed during the commit loop.
type hunkWithCommit struct {
	toApply     gitdiff.Hunk
	destination stack.Entry
	patch       *gitdiff.Patch
}

// Run executes one absorption pass against the repository at root.
func Run(root string, cfg Config, log *logrus.Logger) error {
	a := announce.New(log)
	cfgStore, err := gitcfg.Load(root)
	if err != nil {
		return err
	}

	force := cfg.ForceAuthor && cfg.ForceDetach
	forceAuthor := cfg.ForceAuthor || force || cfgStore.ForceAuthor()
	forceDetach := cfg.ForceDetach || force || cfgStore.ForceDetach()
	oneFixupPerCommit := cfg.OneFixupPerCommit || cfgStore.OneFixupPerCommit()

	stackOpts := stack.Options{
		Base:        cfg.Base,
		NoLimit:     cfg.NoLimit,
		ForceAuthor: forceAuthor,
		ForceDetach: forceDetach,
	}
	entries, endReason, err := stack.WorkingStack(root, stackOpts, cfgStore)
	if err != nil {
		return err
	}

	headHash, err := refstore.ResolveHead(root)
	if err != nil {
		return err
	}
	if headHash == "" {
		a.Announce(announce.Announcement{Kind: announce.CannotFixUpPastFirstCommit})
		return nil
	}
	headCommit, err := objstore.ReadCommit(root, headHash)
	if err != nil {
		return err
	}
	headTree := headCommit.TreeHash

	idx, err := index.ReadIndex(root)
	if err != nil {
		return err
	}

	autoStaged := false
	if idx.IsEmpty() {
		if !cfgStore.AutoStageIfNothingStaged() {
			a.Announce(announce.Announcement{Kind: announce.NothingStaged})
			return nil
		}
		if err := index.AddAll(root, "."); err != nil {
			return err
		}
		idx, err = index.ReadIndex(root)
		if err != nil {
			return err
		}
		autoStaged = true
		if idx.IsEmpty() {
			a.Announce(announce.Announcement{Kind: announce.NothingStagedAfterAutoStaging})
			return nil
		}
	}

	diff, err := gitdiff.ComputeIndexDiff(root, headTree, idx)
	if err != nil {
		return err
	}

	var queue []hunkWithCommit
	sawModifiedPatch := false
	sawNonModifiedPatch := false
	anyWithoutTarget := false

	for pi := range diff.Patches {
		patch := &diff.Patches[pi]
		if patch.Status != gitdiff.StatusModified {
			sawNonModifiedPatch = true
			continue
		}
		sawModifiedPatch = true

		precedingOffset := 0
		appliedOffset := 0
		for _, h := range patch.Hunks {
			isolated := h.ShiftAdded(-precedingOffset)
			toApply := isolated.ShiftBoth(appliedOffset)

			_, found := findDestination(entries, patch.NewPath, isolated, cfg.WholeFile)

			if found != nil {
				queue = append(queue, hunkWithCommit{toApply: toApply, destination: *found, patch: patch})
			} else {
				anyWithoutTarget = true
			}

			precedingOffset += h.ChangedOffset()
			if found != nil {
				appliedOffset += h.ChangedOffset()
			}
		}
	}

	if !sawModifiedPatch {
		a.Announce(announce.Announcement{Kind: announce.NoFileModifications})
		return nil
	}
	if sawNonModifiedPatch && !autoStaged {
		a.Announce(announce.Announcement{Kind: announce.NonFileModifications})
	}

	counts := stack.SummaryCounts(entries)
	sig := objstore.CurrentSignature()

	currentTree := headTree
	currentHead := headHash
	fixupsEmitted := 0
	preAbsorbWritten := false

	for i, rec := range queue {
		newTree, err := rewrite.ApplyHunkToTree(root, currentTree, rec.toApply, rec.patch.NewPath)
		if err != nil {
			return err
		}
		currentTree = newTree

		last := i == len(queue)-1
		differentNext := !last && queue[i+1].destination.Hash != rec.destination.Hash
		flush := !oneFixupPerCommit || differentNext || last
		if !flush {
			continue
		}

		verb := "fixup"
		if cfg.Squash {
			verb = "squash"
		}
		target := rec.destination.Hash
		if !cfgStore.FixupTargetAlwaysSHA() && counts[summaryOf(rec.destination)] == 1 {
			target = summaryOf(rec.destination)
		}
		message := fmt.Sprintf("%s! %s\n", verb, target)
		if cfg.Message != "" {
			message += "\n" + cfg.Message + "\n"
		}

		if cfg.DryRun {
			a.Announce(announce.Announcement{Kind: announce.WouldHaveCommitted, TargetSummary: target})
			continue
		}

		if !preAbsorbWritten {
			if err := refstore.WriteRef(root, "PRE_ABSORB_HEAD", headHash); err != nil {
				return err
			}
			preAbsorbWritten = true
		}

		newCommitHash, err := objstore.WriteCommitSigned(root, currentTree, []string{currentHead}, sig, sig, message)
		if err != nil {
			return err
		}
		if err := advanceHead(root, newCommitHash); err != nil {
			return err
		}
		currentHead = newCommitHash
		fixupsEmitted++
		a.Announce(announce.Announcement{Kind: announce.Committed, CommitHash: newCommitHash, TargetSummary: target})
	}

	if autoStaged && fixupsEmitted > 0 && !cfg.DryRun {
		residual, err := index.ReadFromTree(root, currentTree)
		if err != nil {
			return err
		}
		if err := index.WriteIndex(root, residual); err != nil {
			return err
		}
	}

	if anyWithoutTarget {
		a.Announce(announce.Announcement{Kind: announce.FileModificationsWithoutTarget})
		switch endReason {
		case stack.ReachedMergeCommit:
			a.Announce(announce.Announcement{Kind: announce.CannotFixUpPastMerge})
		case stack.ReachedAnotherAuthor:
			a.Announce(announce.Announcement{Kind: announce.WillNotFixUpPastAnotherAuthor})
		case stack.ReachedLimit:
			a.Announce(announce.Announcement{Kind: announce.WillNotFixUpPastStackLimit, StackLimit: cfgStore.MaxStack()})
		case stack.CommitsHiddenByBase:
			a.Announce(announce.Announcement{Kind: announce.CommitsHiddenByBase})
		case stack.CommitsHiddenByBranches:
			a.Announce(announce.Announcement{Kind: announce.CommitsHiddenByBranches})
		case stack.ReachedRoot:
			a.Announce(announce.Announcement{Kind: announce.CannotFixUpPastFirstCommit})
		}
	}

	if fixupsEmitted > 0 {
		if cfg.AndRebase {
			command := rebaseCommand(cfg, entries)
			if cfg.DryRun {
				a.Announce(announce.Announcement{Kind: announce.WouldHaveRebased, Command: command})
			} else if len(cfg.RebaseArgs) > 0 {
				return fmt.Errorf("--and-rebase does not accept trailing rebase arguments: %q", cfg.RebaseArgs)
			} else if _, err := rebase.Run(root, rebase.Options{BaseHash: rebaseBase(root, entries)}); err != nil {
				return err
			}
		} else {
			a.Announce(announce.Announcement{Kind: announce.HowToSquash, Command: squashCommand(entries, endReason, cfg)})
		}
	}

	return nil
}

// rebaseBase resolves the commit the autosquash rebase should rebuild
// history on top of: the first parent of the oldest commit in the working
// stack, or the empty tree's would-be parent (the root commit itself, left
// untouched) when the oldest entry has none.
func rebaseBase(root string, entries []stack.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	oldest := entries[len(entries)-1].Commit
	if len(oldest.Parents) == 0 {
		return entries[len(entries)-1].Hash
	}
	return oldest.Parents[0]
}

// findDestination walks the stack newest-first applying the commutation
// rule of spec §4.6 step 3, returning the chosen entry or nil if the hunk
// commutes trivially through the whole stack.
func findDestination(entries []stack.Entry, startPath string, h gitdiff.Hunk, wholeFile bool) (gitdiff.Hunk, *stack.Entry) {
	trackingPath := startPath
	current := h

	for i := range entries {
		entry := &entries[i]
		ancestorPatch, ok := entry.Diff.ByNew(trackingPath)
		if !ok {
			continue
		}
		if wholeFile {
			return current, entry
		}
		if ancestorPatch.Status == gitdiff.StatusAdded {
			return current, entry
		}
		if ancestorPatch.OldPath != "" && ancestorPatch.OldPath != ancestorPatch.NewPath {
			trackingPath = ancestorPatch.OldPath
		}
		commuted, ok := commute.CommuteDiffBefore(current, ancestorPatch.Hunks)
		if ok {
			current = commuted
			continue
		}
		return current, entry
	}
	return current, nil
}

func summaryOf(e stack.Entry) string {
	msg := e.Commit.Message
	for i, r := range msg {
		if r == '\n' {
			return msg[:i]
		}
	}
	return msg
}

func advanceHead(root, newHash string) error {
	branch, err := refstore.CurrentBranch(root)
	if err != nil {
		return err
	}
	if branch == "" {
		return refstore.UpdateHead(root, newHash)
	}
	return refstore.WriteRef(root, refstore.BranchRef(branch), newHash)
}

func squashCommand(entries []stack.Entry, endReason stack.EndReason, cfg Config) string {
	return fmt.Sprintf("gogit rebase --autosquash --autostash --base %s", rebaseBase("", entries))
}

func rebaseCommand(cfg Config, entries []stack.Entry) string {
	cmd := squashCommand(entries, stack.ReachedRoot, cfg)
	for _, extra := range cfg.RebaseArgs {
		cmd += " " + extra
	}
	return cmd
}
