package stack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nikola43/gogit-absorb/internal/gitcfg"
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

func emptyCfg(t *testing.T, root string) *gitcfg.Store {
	t.Helper()
	s, err := gitcfg.Load(root)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func commitFile(t *testing.T, root, author, message string, parent string, files map[string]string) string {
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
	sig := objstore.Signature{Name: author, Email: author + "@test.com"}
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

func TestWorkingStack_StopsAtForeignAuthor(t *testing.T) {
	root := initRepo(t)
	t.Setenv("GOGIT_AUTHOR_NAME", "me")
	t.Setenv("GOGIT_AUTHOR_EMAIL", "me@localhost")

	first := commitFile(t, root, "someoneelse", "first", "", map[string]string{"f.txt": "a\n"})
	second := commitFile(t, root, "me", "second", first, map[string]string{"f.txt": "a\nb\n"})
	third := commitFile(t, root, "me", "third", second, map[string]string{"f.txt": "a\nb\nc\n"})

	entries, reason, err := WorkingStack(root, Options{}, emptyCfg(t, root))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != ReachedAnotherAuthor {
		t.Fatalf("reason = %v, want ReachedAnotherAuthor", reason)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Hash != third || entries[1].Hash != second {
		t.Fatalf("unexpected entries order")
	}
}

func TestWorkingStack_StopsAtMergeCommit(t *testing.T) {
	root := initRepo(t)
	t.Setenv("GOGIT_AUTHOR_NAME", "me")
	t.Setenv("GOGIT_AUTHOR_EMAIL", "me@localhost")

	first := commitFile(t, root, "me", "first", "", map[string]string{"f.txt": "a\n"})
	second := commitFile(t, root, "me", "second", first, map[string]string{"f.txt": "a\nb\n"})

	treeHash, _ := objstore.BuildTree(root, nil)
	sig := objstore.Signature{Name: "me", Email: "me@localhost"}
	mergeHash, err := objstore.WriteCommitSigned(root, treeHash, []string{second, first}, sig, sig, "merge")
	if err != nil {
		t.Fatal(err)
	}
	refstore.WriteRef(root, "refs/heads/main", mergeHash)

	third := commitFile(t, root, "me", "third", mergeHash, map[string]string{"f.txt": "a\nb\nc\n"})

	entries, reason, err := WorkingStack(root, Options{}, emptyCfg(t, root))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != ReachedMergeCommit {
		t.Fatalf("reason = %v, want ReachedMergeCommit", reason)
	}
	if len(entries) != 1 || entries[0].Hash != third {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestWorkingStack_HidesOtherBranches(t *testing.T) {
	root := initRepo(t)
	t.Setenv("GOGIT_AUTHOR_NAME", "me")
	t.Setenv("GOGIT_AUTHOR_EMAIL", "me@localhost")

	first := commitFile(t, root, "me", "first", "", map[string]string{"f.txt": "a\n"})
	if err := refstore.WriteRef(root, "refs/heads/hide", first); err != nil {
		t.Fatal(err)
	}
	second := commitFile(t, root, "me", "second", first, map[string]string{"f.txt": "a\nb\n"})

	entries, reason, err := WorkingStack(root, Options{}, emptyCfg(t, root))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != CommitsHiddenByBranches {
		t.Fatalf("reason = %v, want CommitsHiddenByBranches", reason)
	}
	if len(entries) != 1 || entries[0].Hash != second {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestWorkingStack_StopsAtConfiguredLimit(t *testing.T) {
	root := initRepo(t)
	t.Setenv("GOGIT_AUTHOR_NAME", "me")
	t.Setenv("GOGIT_AUTHOR_EMAIL", "me@localhost")

	os.MkdirAll(filepath.Join(root, repo.GogitDir), 0755)
	os.WriteFile(repo.ConfigPath(root), []byte("[absorb]\nmaxStack = 2\n"), 0644)

	parent := ""
	for i := 0; i < 4; i++ {
		parent = commitFile(t, root, "me", "msg", parent, map[string]string{"f.txt": "a\n"})
	}

	entries, reason, err := WorkingStack(root, Options{}, emptyCfg(t, root))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != ReachedLimit {
		t.Fatalf("reason = %v, want ReachedLimit", reason)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
}

func TestSummaryCounts(t *testing.T) {
	entries := []Entry{
		{Commit: &objstore.Commit{Message: "fix bug\n\ndetails"}},
		{Commit: &objstore.Commit{Message: "fix bug"}},
		{Commit: &objstore.Commit{Message: "add feature"}},
	}
	counts := SummaryCounts(entries)
	if counts["fix bug"] != 2 {
		t.Errorf("counts[fix bug] = %d, want 2", counts["fix bug"])
	}
	if counts["add feature"] != 1 {
		t.Errorf("counts[add feature] = %d, want 1", counts["add feature"])
	}
}
