package rebase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nikola43/gogit-absorb/internal/objstore"
	"github.com/nikola43/gogit-absorb/internal/refstore"
	"github.com/nikola43/gogit-absorb/internal/repo"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, sub := range []string{"objects", "refs/heads"} {
		if err := os.MkdirAll(filepath.Join(dir, repo.GogitDir, sub), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := refstore.UpdateHead(dir, "ref: refs/heads/main"); err != nil {
		t.Fatal(err)
	}
	return dir
}

func commitFile(t *testing.T, root, message, parent string, files map[string]string) string {
	t.Helper()
	leaves := make([]objstore.TreeLeaf, 0, len(files))
	for path, content := range files {
		hash, err := objstore.WriteBlob(root, []byte(content))
		if err != nil {
			t.Fatal(err)
		}
		leaves = append(leaves, objstore.TreeLeaf{Path: path, Mode: "100644", Hash: hash})
	}
	treeHash, err := objstore.BuildTree(root, leaves)
	if err != nil {
		t.Fatal(err)
	}
	var parents []string
	if parent != "" {
		parents = []string{parent}
	}
	sig := objstore.Signature{Name: "me", Email: "me@test.com"}
	hash, err := objstore.WriteCommitSigned(root, treeHash, parents, sig, sig, message)
	if err != nil {
		t.Fatal(err)
	}
	if err := refstore.WriteRef(root, "refs/heads/main", hash); err != nil {
		t.Fatal(err)
	}
	if err := refstore.UpdateHead(root, "ref: refs/heads/main"); err != nil {
		t.Fatal(err)
	}
	return hash
}

func readFile(t *testing.T, root, treeHash, path string) string {
	t.Helper()
	flat, err := objstore.FlattenTree(root, treeHash, "")
	if err != nil {
		t.Fatal(err)
	}
	hash, ok := flat[path]
	if !ok {
		t.Fatalf("path %q not found in tree", path)
	}
	content, err := objstore.ReadBlob(root, hash)
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}

func TestRun_FoldsFixupIntoTarget(t *testing.T) {
	root := initRepo(t)

	base := commitFile(t, root, "base", "", map[string]string{"f.txt": "a\n"})
	target := commitFile(t, root, "add b", base, map[string]string{"f.txt": "a\nb\n"})
	_ = commitFile(t, root, "fixup! add b", target, map[string]string{"f.txt": "a\nb\nc\n"})

	newTip, err := Run(root, Options{BaseHash: base})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	commit, err := objstore.ReadCommit(root, newTip)
	if err != nil {
		t.Fatal(err)
	}
	if len(commit.Parents) != 1 || commit.Parents[0] != base {
		t.Fatalf("expected the fixup to be folded, leaving exactly one commit on top of base")
	}
	if got := readFile(t, root, commit.TreeHash, "f.txt"); got != "a\nb\nc\n" {
		t.Fatalf("f.txt = %q, want folded content", got)
	}

	branchHead, err := refstore.ReadRef(root, "refs/heads/main")
	if err != nil {
		t.Fatal(err)
	}
	if branchHead != newTip {
		t.Fatalf("branch ref = %s, want %s", branchHead, newTip)
	}
}

func TestRun_ReplaysCommitsAfterFixupTarget(t *testing.T) {
	root := initRepo(t)

	base := commitFile(t, root, "base", "", map[string]string{"f.txt": "a\n"})
	target := commitFile(t, root, "add b", base, map[string]string{"f.txt": "a\nb\n"})
	afterTarget := commitFile(t, root, "add g", target, map[string]string{"f.txt": "a\nb\n", "g.txt": "g\n"})
	_ = commitFile(t, root, "fixup! add b", afterTarget, map[string]string{"f.txt": "a\nb\nc\n", "g.txt": "g\n"})

	newTip, err := Run(root, Options{BaseHash: base})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	commit, err := objstore.ReadCommit(root, newTip)
	if err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, root, commit.TreeHash, "f.txt"); got != "a\nb\nc\n" {
		t.Fatalf("f.txt = %q, want a\\nb\\nc\\n", got)
	}
	if got := readFile(t, root, commit.TreeHash, "g.txt"); got != "g\n" {
		t.Fatalf("g.txt = %q, want g\\n", got)
	}

	count := 0
	hash := newTip
	for hash != base {
		c, err := objstore.ReadCommit(root, hash)
		if err != nil {
			t.Fatal(err)
		}
		count++
		hash = c.Parents[0]
	}
	if count != 2 {
		t.Fatalf("expected 2 commits on top of base after folding the fixup, got %d", count)
	}
}
