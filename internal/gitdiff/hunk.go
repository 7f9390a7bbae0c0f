// Package gitdiff implements the hunk/patch/diff data model that the
// absorption engine operates on: immutable value types for a contiguous
// change region (Hunk), the per-file collection of those (Patch), and the
// whole-tree collection of patches (Diff), plus the coordinate arithmetic
// (anchors, changed offset, shifts) the commutation engine depends on.
package gitdiff

// Block represents one side (removed or added) of a Hunk. Start is the
// 1-indexed line number in the pre- or post-change file at which the block
// begins; if Start is 0, Lines must be empty (the sentinel for an empty
// removed side at the very top of a file). Lines are opaque byte payloads
// that may or may not carry their own trailing newline; TrailingNewline
// records whether the file as a whole ends with a newline after this
// block's contribution.
type Block struct {
	Start           int
	Lines           [][]byte
	TrailingNewline bool
}

// Hunk is a pair of Blocks: the lines removed from the pre-file and the
// lines added to the post-file at the same logical position. Hunks are
// logically immutable after they are parsed — every operation below
// returns a new Hunk rather than mutating the receiver, so that shifted or
// commuted copies can be handed around freely while the originals stay
// valid for other computations in flight.
type Hunk struct {
	Removed Block
	Added   Block
}

// Anchors returns the four line numbers surrounding this hunk: the last
// unchanged line before it and the first unchanged line after it, on the
// removed side and then on the added side. It is a total function: every
// Hunk, including the fully-empty degenerate one, has a well-defined
// 4-tuple of anchors.
func (h Hunk) Anchors() (prevRemoved, nextRemoved, prevAdded, nextAdded int) {
	removedLen := len(h.Removed.Lines)
	addedLen := len(h.Added.Lines)

	switch {
	case removedLen == 0 && addedLen == 0:
		return 0, 1, 0, 1
	case addedLen == 0:
		return h.Removed.Start - 1, h.Removed.Start + removedLen, h.Removed.Start - 1, h.Removed.Start
	case removedLen == 0:
		return h.Added.Start - 1, h.Added.Start, h.Added.Start - 1, h.Added.Start + addedLen
	default:
		return h.Removed.Start - 1, h.Removed.Start + removedLen, h.Added.Start - 1, h.Added.Start + addedLen
	}
}

// ChangedOffset is the net change in line count this hunk introduces:
// len(added) - len(removed).
func (h Hunk) ChangedOffset() int {
	return len(h.Added.Lines) - len(h.Removed.Lines)
}

// ShiftAdded returns a copy of h with the added side's start moved by
// delta; the removed side is untouched. Used by the orchestrator to
// express a hunk as if the other hunks in its own patch had not yet been
// counted (spec §4.6's preceding_hunks_offset correction).
func (h Hunk) ShiftAdded(delta int) Hunk {
	shifted := h
	shifted.Added.Start += delta
	return shifted
}

// ShiftBoth returns a copy of h with both sides' starts moved by delta.
func (h Hunk) ShiftBoth(delta int) Hunk {
	shifted := h
	shifted.Removed.Start += delta
	shifted.Added.Start += delta
	return shifted
}
