package refstore

import (
	"strings"

	"github.com/nikola43/gogit-absorb/internal/objstore"
)

// IsDetached reports whether HEAD points directly at a commit rather than
// at a branch ref.
func IsDetached(root string) (bool, error) {
	head, err := ReadHead(root)
	if err != nil {
		return false, err
	}
	return !strings.HasPrefix(head, "ref: "), nil
}

// RevWalk performs a first-parent-only walk starting at (and including)
// startHash, stopping as soon as it reaches a commit in hide (hide is
// never itself included in the result) or a root commit (no parents).
// It returns the walked commits newest-first alongside a flag telling the
// caller whether the walk stopped because it ran into a hidden commit.
func RevWalk(root, startHash string, hide map[string]bool) (commits []*objstore.Commit, hashes []string, hitHidden bool, err error) {
	hash := startHash
	for hash != "" {
		if hide[hash] {
			hitHidden = true
			break
		}
		commit, rerr := objstore.ReadCommit(root, hash)
		if rerr != nil {
			return nil, nil, false, rerr
		}
		commits = append(commits, commit)
		hashes = append(hashes, hash)

		if len(commit.Parents) == 0 {
			hash = ""
			break
		}
		hash = commit.Parents[0]
	}
	return commits, hashes, hitHidden, nil
}

// FirstParentAncestors returns every commit hash reachable from startHash by
// following first parents, startHash included. Used to build the hide-set
// of commits belonging only to other local branches.
func FirstParentAncestors(root, startHash string) (map[string]bool, error) {
	set := make(map[string]bool)
	hash := startHash
	for hash != "" {
		if set[hash] {
			break // defensive: a cycle should never occur in a well-formed history
		}
		set[hash] = true
		commit, err := objstore.ReadCommit(root, hash)
		if err != nil {
			return nil, err
		}
		if len(commit.Parents) == 0 {
			break
		}
		hash = commit.Parents[0]
	}
	return set, nil
}
