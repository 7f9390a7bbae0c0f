// Package commute implements the commutation predicate: the pure function
// deciding whether two hunks that appeared in application order can be
// reordered without changing the final file content, and its fold form
// that commutes a hunk backward through an entire earlier patch.
package commute

import (
	"bytes"

	"github.com/nikola43/gogit-absorb/internal/gitdiff"
)

// Commute decides whether first (applied before second, against the same
// base file) and second commute. On success ok is true and it returns the
// swapped pair in (second, first) order — commutedSecond is what second
// would look like if it were applied before first, and commutedFirst is
// what first would look like applied after second. This mirrors the
// source's own return order, which callers such as CommuteDiffBefore rely
// on directly. If the hunks overlap and cannot be reordered, ok is false
// and both returned hunks are zero.
func Commute(first, second gitdiff.Hunk) (commutedSecond, commutedFirst gitdiff.Hunk, ok bool) {
	_, _, firstUpper, firstLower := first.Anchors()
	secondUpper, secondLower, _, _ := second.Anchors()

	var firstAbove bool
	var above, below gitdiff.Hunk

	switch {
	case firstLower <= secondUpper:
		firstAbove, above, below = true, first, second
	case secondLower <= firstUpper:
		firstAbove, above, below = false, second, first
	default:
		if uniformDegenerate(first, second) {
			return second, first, true
		}
		return gitdiff.Hunk{}, gitdiff.Hunk{}, false
	}

	aboveChangeOffset := len(above.Added.Lines) - len(above.Removed.Lines)
	if firstAbove {
		aboveChangeOffset = -aboveChangeOffset
	}
	below = below.ShiftBoth(aboveChangeOffset)

	if firstAbove {
		// above == first, below == shifted second
		return below, above, true
	}
	// above == second, below == shifted first
	return above, below, true
}

// uniformDegenerate handles the repeated-line escape hatch: if both hunks
// are exclusively adding or removing, and every one of their combined
// lines is the same byte-equal payload, they commute no matter what their
// offsets are, because they can be interleaved in any order without
// changing the final result. The source deliberately leaves the start
// positions unrecomputed here; this follows the simpler "swap and pass
// through" rule the source's own comments call out as acceptable.
func uniformDegenerate(first, second gitdiff.Hunk) bool {
	if len(first.Added.Lines) == 0 && len(second.Added.Lines) == 0 {
		if uniform(first.Removed.Lines, second.Removed.Lines) {
			return true
		}
	}
	if len(first.Removed.Lines) == 0 && len(second.Removed.Lines) == 0 {
		if uniform(first.Added.Lines, second.Added.Lines) {
			return true
		}
	}
	return false
}

// uniform reports whether every line across both slices is byte-equal to
// the first line seen. An empty combined sequence is vacuously uniform.
func uniform(a, b [][]byte) bool {
	var first []byte
	seen := false
	for _, l := range a {
		if !seen {
			first, seen = l, true
			continue
		}
		if !bytes.Equal(l, first) {
			return false
		}
	}
	for _, l := range b {
		if !seen {
			first, seen = l, true
			continue
		}
		if !bytes.Equal(l, first) {
			return false
		}
	}
	return true
}

// CommuteDiffBefore folds after backward through before, the hunks of one
// earlier patch, in reverse application order (last-applied to
// first-applied — which is also reverse line order within the patch). At
// each step it commutes the next earlier hunk against the running result;
// if any step fails to commute, the whole fold fails. A true ok means
// after, as returned, is what the hunk would look like had none of
// before's hunks been applied yet.
func CommuteDiffBefore(after gitdiff.Hunk, before []gitdiff.Hunk) (gitdiff.Hunk, bool) {
	running := after
	for i := len(before) - 1; i >= 0; i-- {
		commutedAfter, _, ok := Commute(before[i], running)
		if !ok {
			return gitdiff.Hunk{}, false
		}
		running = commutedAfter
	}
	return running, true
}
