package vcs

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	dir := t.TempDir()
	repo, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return repo
}

func TestBuildTree_Empty(t *testing.T) {
	repo := newTestRepo(t)
	d, err := repo.BuildTree(repo.index)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if d != EmptyTreeDigest {
		t.Errorf("BuildTree({}) = %s, want %s", d, EmptyTreeDigest)
	}
}

func TestBuildTree_FlatSingleFile(t *testing.T) {
	repo := newTestRepo(t)
	blobDigest, err := repo.store.Put(TypeBlob, []byte("hello\n"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if blobDigest != "ce013625030ba8dba906f756967f9e9ca394464a" {
		t.Fatalf("blob digest = %s, want known vector", blobDigest)
	}
	repo.index.Put("a.txt", blobDigest)

	treeDigest, err := repo.BuildTree(repo.index)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	_, content, err := repo.store.Get(treeDigest)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	entries, err := decodeTree(content)
	if err != nil {
		t.Fatalf("decodeTree: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "a.txt" || entries[0].Mode != modeFile || entries[0].Dig != blobDigest {
		t.Errorf("entries = %+v, want single a.txt file entry", entries)
	}
}

func TestBuildTree_NestedDirectoriesDeterministic(t *testing.T) {
	orders := [][]string{
		{"dir/x", "dir/y", "z"},
		{"z", "dir/y", "dir/x"},
		{"dir/y", "z", "dir/x"},
	}

	var digests []Digest
	for _, order := range orders {
		repo := newTestRepo(t)
		hx, _ := repo.store.Put(TypeBlob, []byte("content1"))
		hy, _ := repo.store.Put(TypeBlob, []byte("content2"))
		hz, _ := repo.store.Put(TypeBlob, []byte("content3"))
		byPath := map[string]Digest{"dir/x": hx, "dir/y": hy, "z": hz}
		for _, path := range order {
			repo.index.Put(path, byPath[path])
		}
		d, err := repo.BuildTree(repo.index)
		if err != nil {
			t.Fatalf("BuildTree: %v", err)
		}
		digests = append(digests, d)
	}
	for i := 1; i < len(digests); i++ {
		if digests[i] != digests[0] {
			t.Errorf("digest for order %v = %s, want %s (order-independent)", orders[i], digests[i], digests[0])
		}
	}

	// The root tree's "z" file entry (mode 100644) must sort before the
	// "dir" subtree entry (mode 40000), since "100644" < "40000" as ASCII.
	repo := newTestRepo(t)
	hx, _ := repo.store.Put(TypeBlob, []byte("content1"))
	hy, _ := repo.store.Put(TypeBlob, []byte("content2"))
	hz, _ := repo.store.Put(TypeBlob, []byte("content3"))
	repo.index.Put("dir/x", hx)
	repo.index.Put("dir/y", hy)
	repo.index.Put("z", hz)
	rootDigest, err := repo.BuildTree(repo.index)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	_, content, err := repo.store.Get(rootDigest)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	rootEntries, err := decodeTree(content)
	if err != nil {
		t.Fatalf("decodeTree: %v", err)
	}
	if len(rootEntries) != 2 {
		t.Fatalf("expected 2 root entries, got %d", len(rootEntries))
	}
	if rootEntries[0].Name != "z" || rootEntries[0].Mode != modeFile {
		t.Errorf("first root entry = %+v, want file z first", rootEntries[0])
	}
	if rootEntries[1].Name != "dir" || rootEntries[1].Mode != modeDir {
		t.Errorf("second root entry = %+v, want dir second", rootEntries[1])
	}
}

func TestBuildTree_InvalidPath(t *testing.T) {
	repo := newTestRepo(t)
	d, _ := repo.store.Put(TypeBlob, []byte("x"))
	repo.index.Put("a//b", d)
	if _, err := repo.BuildTree(repo.index); err == nil {
		t.Error("expected InvalidPathError for empty path component")
	}
}

func TestBuildTree_TreeConflict(t *testing.T) {
	repo := newTestRepo(t)
	d, _ := repo.store.Put(TypeBlob, []byte("x"))
	repo.index.Put("a", d)
	repo.index.Put("a/b", d)
	if _, err := repo.BuildTree(repo.index); err == nil {
		t.Error("expected TreeConflictError for name used as both file and directory")
	}
}

func TestTreeWalk_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	hx, _ := repo.store.Put(TypeBlob, []byte("content1"))
	hy, _ := repo.store.Put(TypeBlob, []byte("content2"))
	hz, _ := repo.store.Put(TypeBlob, []byte("content3"))
	repo.index.Put("dir/x", hx)
	repo.index.Put("dir/y", hy)
	repo.index.Put("z", hz)

	rootDigest, err := repo.BuildTree(repo.index)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	files, err := repo.ListTree(rootDigest)
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}
	got := map[string]Digest{}
	for _, f := range files {
		got[f.Path] = f.Dig
	}
	want := map[string]Digest{"dir/x": hx, "dir/y": hy, "z": hz}
	if len(got) != len(want) {
		t.Fatalf("ListTree returned %d files, want %d", len(got), len(want))
	}
	for path, d := range want {
		if got[path] != d {
			t.Errorf("ListTree[%s] = %s, want %s", path, got[path], d)
		}
	}
}

func TestMaterializeTree_WritesFiles(t *testing.T) {
	repo := newTestRepo(t)
	hx, _ := repo.store.Put(TypeBlob, []byte("content1"))
	repo.index.Put("dir/x", hx)
	rootDigest, err := repo.BuildTree(repo.index)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	target := t.TempDir()
	if err := repo.MaterializeTree(rootDigest, target); err != nil {
		t.Fatalf("MaterializeTree: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(target, "dir", "x"))
	if err != nil {
		t.Fatalf("read materialized file: %v", err)
	}
	if string(data) != "content1" {
		t.Errorf("materialized content = %q, want %q", data, "content1")
	}
}
