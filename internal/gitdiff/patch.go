package gitdiff

// PatchStatus tags what kind of change a Patch represents.
type PatchStatus int

const (
	StatusModified PatchStatus = iota
	StatusAdded
	StatusDeleted
	StatusRenamed
)

func (s PatchStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	default:
		return "modified"
	}
}

// Patch is every hunk belonging to one file in one Diff, plus the file's
// identity either side of the change. OldPath equals NewPath for in-place
// modifications. Hunks are sorted by Removed.Start.
type Patch struct {
	OldPath string
	NewPath string
	Status  PatchStatus
	Hunks   []Hunk
}
