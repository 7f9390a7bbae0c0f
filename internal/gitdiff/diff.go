package gitdiff

import "fmt"

// Diff is an ordered list of per-file Patches, indexed by both old and new
// path so the commutation engine can look up "does this ancestor's patch
// touch the path my hunk is currently tracking" in O(1).
type Diff struct {
	Patches []Patch

	byOld map[string]int
	byNew map[string]int
}

// NewDiff builds a Diff from patches, rejecting duplicate paths on either
// side — every old path and every new path must be unique within one Diff.
func NewDiff(patches []Patch) (*Diff, error) {
	d := &Diff{
		Patches: patches,
		byOld:   make(map[string]int, len(patches)),
		byNew:   make(map[string]int, len(patches)),
	}
	for i, p := range patches {
		if p.OldPath != "" {
			if _, exists := d.byOld[p.OldPath]; exists {
				return nil, fmt.Errorf("gitdiff: duplicate old path in diff: %s", p.OldPath)
			}
			d.byOld[p.OldPath] = i
		}
		if p.NewPath != "" {
			if _, exists := d.byNew[p.NewPath]; exists {
				return nil, fmt.Errorf("gitdiff: duplicate new path in diff: %s", p.NewPath)
			}
			d.byNew[p.NewPath] = i
		}
	}
	return d, nil
}

// ByOld looks up the patch whose old path matches path.
func (d *Diff) ByOld(path string) (*Patch, bool) {
	i, ok := d.byOld[path]
	if !ok {
		return nil, false
	}
	return &d.Patches[i], true
}

// ByNew looks up the patch whose new path matches path.
func (d *Diff) ByNew(path string) (*Patch, bool) {
	i, ok := d.byNew[path]
	if !ok {
		return nil, false
	}
	return &d.Patches[i], true
}
