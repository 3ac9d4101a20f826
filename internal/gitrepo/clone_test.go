package gitrepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/dsablic/bb/internal/gitrepo"
)

func TestCloneLocalRepository(t *testing.T) {
	src := t.TempDir()
	repo, err := git.PlainInit(src, false)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(src, "README.md"), []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree failed: %v", err)
	}
	if _, err := wt.Add("README.md"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	_, err = wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	dst := filepath.Join(t.TempDir(), "clone")
	cloner := gitrepo.NewCloner("", "ignored-for-local-paths")
	if err := cloner.Clone(context.Background(), src, dst, gitrepo.CloneOpts{}); err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dst, "README.md"))
	if err != nil {
		t.Fatalf("failed to read cloned file: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("unexpected content %q", data)
	}

	remotes := gitrepo.Remotes{Dir: dst}
	url, ok := remotes.OriginURL()
	if !ok {
		t.Fatal("expected clone to have an origin remote")
	}
	if url != src {
		t.Errorf("expected origin %s, got %s", src, url)
	}
}

func TestCloneFailureRemovesCreatedDir(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "clone")
	cloner := gitrepo.NewCloner("", "")

	err := cloner.Clone(context.Background(), filepath.Join(t.TempDir(), "missing"), dst, gitrepo.CloneOpts{})
	if err == nil {
		t.Fatal("expected clone of missing repository to fail")
	}

	// The directory did not exist before, so it should be gone again.
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("expected clone dir to be removed, stat err: %v", err)
	}
}
