package vcs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestInit_CreatesLayout(t *testing.T) {
	dir := t.TempDir()
	repo, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(repo.GitDir(), "objects")); err != nil {
		t.Errorf("objects dir missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(repo.GitDir(), "refs", "heads")); err != nil {
		t.Errorf("refs/heads dir missing: %v", err)
	}
	target, detached, err := repo.refs.ReadHead()
	if err != nil {
		t.Fatalf("ReadHead: %v", err)
	}
	if detached || target != "refs/heads/master" {
		t.Errorf("HEAD = (%q, detached=%v), want symbolic refs/heads/master", target, detached)
	}
	if repo.index.Len() != 0 {
		t.Errorf("fresh index should be empty, got %d entries", repo.index.Len())
	}
}

func TestCommit_NothingToCommitWhenIndexEmpty(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Commit("m1", "bit user <user@bit>")
	if !errors.Is(err, ErrNothingToCommit) {
		t.Errorf("Commit on empty index = %v, want ErrNothingToCommit", err)
	}
}

func TestCommit_LinksParents(t *testing.T) {
	dir := t.TempDir()
	repo, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeFile(t, dir, "a.txt", "a")
	if err := repo.Add(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	m1, err := repo.Commit("m1", "bit user <user@bit>")
	if err != nil {
		t.Fatalf("Commit m1: %v", err)
	}

	writeFile(t, dir, "b.txt", "b")
	if err := repo.Add(filepath.Join(dir, "b.txt")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	m2, err := repo.Commit("m2", "bit user <user@bit>")
	if err != nil {
		t.Fatalf("Commit m2: %v", err)
	}

	branchDigest, ok, err := repo.refs.ReadBranch("master")
	if err != nil || !ok {
		t.Fatalf("ReadBranch master: ok=%v err=%v", ok, err)
	}
	if branchDigest != m2 {
		t.Errorf("refs/heads/master = %s, want %s", branchDigest, m2)
	}

	commit, err := repo.GetCommit(m2)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}
	if len(commit.Parents) != 1 || commit.Parents[0] != m1 {
		t.Errorf("m2.Parents = %v, want [%s]", commit.Parents, m1)
	}
	files, err := repo.ListTree(commit.Tree)
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("m2 tree has %d files, want 2 (a.txt, b.txt)", len(files))
	}
}

func TestCommit_NoOpWhenTreeUnchanged(t *testing.T) {
	dir := t.TempDir()
	repo, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeFile(t, dir, "a.txt", "a")
	repo.Add(filepath.Join(dir, "a.txt"))
	if _, err := repo.Commit("m1", "bit user <user@bit>"); err != nil {
		t.Fatalf("Commit m1: %v", err)
	}
	// Re-stage the identical content and commit again: tree is unchanged.
	repo.Add(filepath.Join(dir, "a.txt"))
	_, err = repo.Commit("m2", "bit user <user@bit>")
	if !errors.Is(err, ErrNothingToCommit) {
		t.Errorf("Commit with unchanged tree = %v, want ErrNothingToCommit", err)
	}
}

func TestCheckout_RestoresBranchFilesAndRemovesOthers(t *testing.T) {
	dir := t.TempDir()
	repo, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeFile(t, dir, "a.txt", "a")
	repo.Add(filepath.Join(dir, "a.txt"))
	if _, err := repo.Commit("m1", "bit user <user@bit>"); err != nil {
		t.Fatalf("Commit m1: %v", err)
	}

	if err := repo.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := repo.Checkout("feature", false); err != nil {
		t.Fatalf("Checkout feature: %v", err)
	}
	writeFile(t, dir, "feature-only.txt", "f")
	repo.Add(filepath.Join(dir, "feature-only.txt"))
	if _, err := repo.Commit("feature commit", "bit user <user@bit>"); err != nil {
		t.Fatalf("Commit on feature: %v", err)
	}

	if err := repo.Checkout("master", false); err != nil {
		t.Fatalf("Checkout master: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "a.txt")); err != nil {
		t.Errorf("a.txt should exist after checkout master: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "feature-only.txt")); !os.IsNotExist(err) {
		t.Errorf("feature-only.txt should be removed after checkout master, stat err = %v", err)
	}
}

func TestCheckout_CreateWithoutPriorCommitFails(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.Checkout("new-branch", true)
	if !errors.As(err, new(*NoCommitsYetError)) {
		t.Errorf("Checkout(create=true) with no commits = %v, want NoCommitsYetError", err)
	}
}

func TestCheckout_NotFoundWithoutCreate(t *testing.T) {
	dir := t.TempDir()
	repo, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeFile(t, dir, "a.txt", "a")
	repo.Add(filepath.Join(dir, "a.txt"))
	repo.Commit("m1", "bit user <user@bit>")

	err = repo.Checkout("does-not-exist", false)
	if !errors.As(err, new(*BranchNotFoundError)) {
		t.Errorf("Checkout(missing, create=false) = %v, want BranchNotFoundError", err)
	}
}

func TestComputeStatus_StagedUnstagedUntrackedDeleted(t *testing.T) {
	dir := t.TempDir()
	repo, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeFile(t, dir, "tracked.txt", "v1")
	repo.Add(filepath.Join(dir, "tracked.txt"))
	if _, err := repo.Commit("m1", "bit user <user@bit>"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// Modify tracked file on disk without staging -> unstaged.
	writeFile(t, dir, "tracked.txt", "v2")
	// Stage a new file -> staged "new file".
	writeFile(t, dir, "staged-new.txt", "new")
	repo.Add(filepath.Join(dir, "staged-new.txt"))
	// Remove a tracked+staged file from disk -> deleted.
	writeFile(t, dir, "to-delete.txt", "d")
	repo.Add(filepath.Join(dir, "to-delete.txt"))
	os.Remove(filepath.Join(dir, "to-delete.txt"))
	// An untracked file on disk.
	writeFile(t, dir, "untracked.txt", "u")

	status, err := repo.ComputeStatus()
	if err != nil {
		t.Fatalf("ComputeStatus: %v", err)
	}

	foundNewFile := false
	for _, s := range status.Staged {
		if s.Path == "staged-new.txt" && s.Kind == StagedNewFile {
			foundNewFile = true
		}
	}
	if !foundNewFile {
		t.Errorf("staged-new.txt should be reported as staged new file: %+v", status.Staged)
	}

	if !contains(status.Unstaged, "tracked.txt") {
		t.Errorf("tracked.txt should be unstaged-modified: %+v", status.Unstaged)
	}
	if !contains(status.Untracked, "untracked.txt") {
		t.Errorf("untracked.txt should be untracked: %+v", status.Untracked)
	}
	if !contains(status.Deleted, "to-delete.txt") {
		t.Errorf("to-delete.txt should be deleted: %+v", status.Deleted)
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
