package vcs

import "testing"

func TestEncodeTree_CanonicalOrder(t *testing.T) {
	h1 := digestFromRaw(make([]byte, digestSize))
	entries := []TreeEntry{
		{Mode: modeDir, Name: "dir", Dig: h1},
		{Mode: modeFile, Name: "z", Dig: h1},
	}
	got, err := encodeTree(entries)
	if err != nil {
		t.Fatalf("encodeTree: %v", err)
	}
	// "100644" < "40000" lexicographically, so the file entry for "z" must
	// come first even though it was appended last.
	decoded, err := decodeTree(got)
	if err != nil {
		t.Fatalf("decodeTree: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decoded))
	}
	if decoded[0].Name != "z" || decoded[0].Mode != modeFile {
		t.Errorf("first entry = %+v, want file entry z", decoded[0])
	}
	if decoded[1].Name != "dir" || decoded[1].Mode != modeDir {
		t.Errorf("second entry = %+v, want dir entry", decoded[1])
	}
}

func TestEncodeDecodeTree_RoundTrip(t *testing.T) {
	h1 := digestFromRaw([]byte("01234567890123456789"))
	h2 := digestFromRaw([]byte("abcdefghijabcdefghij"))
	entries := []TreeEntry{
		{Mode: modeFile, Name: "a.txt", Dig: h1},
		{Mode: modeDir, Name: "sub", Dig: h2},
	}
	encoded, err := encodeTree(entries)
	if err != nil {
		t.Fatalf("encodeTree: %v", err)
	}
	reencoded, err := encodeTree(entries)
	if err != nil {
		t.Fatalf("encodeTree (again): %v", err)
	}
	if string(encoded) != string(reencoded) {
		t.Errorf("encoding is not deterministic")
	}
	decoded, err := decodeTree(encoded)
	if err != nil {
		t.Fatalf("decodeTree: %v", err)
	}
	reencodedFromDecoded, err := encodeTree(decoded)
	if err != nil {
		t.Fatalf("encodeTree(decoded): %v", err)
	}
	if string(reencodedFromDecoded) != string(encoded) {
		t.Errorf("re-encoding a decoded tree did not reproduce the original bytes")
	}
}

func TestEncodeTree_InvalidName(t *testing.T) {
	h := digestFromRaw(make([]byte, digestSize))
	_, err := encodeTree([]TreeEntry{{Mode: modeFile, Name: "a/b", Dig: h}})
	if err == nil {
		t.Error("expected error for name containing '/'")
	}
}

func TestCommitEncodeDecode_RoundTrip(t *testing.T) {
	c := Commit{
		Tree:      EmptyTreeDigest,
		Parents:   []Digest{EmptyTreeDigest},
		Author:    "bit user <user@bit>",
		Committer: "bit user <user@bit>",
		AuthorSec: 1700000000,
		CommitSec: 1700000000,
		Message:   "a commit message\n",
	}
	encoded := encodeCommit(c)
	decoded, err := decodeCommit(encoded)
	if err != nil {
		t.Fatalf("decodeCommit: %v", err)
	}
	if decoded.Tree != c.Tree {
		t.Errorf("tree = %s, want %s", decoded.Tree, c.Tree)
	}
	if len(decoded.Parents) != 1 || decoded.Parents[0] != c.Parents[0] {
		t.Errorf("parents = %v, want %v", decoded.Parents, c.Parents)
	}
	if decoded.Author != c.Author {
		t.Errorf("author = %q, want %q", decoded.Author, c.Author)
	}
	if decoded.Message != c.Message {
		t.Errorf("message = %q, want %q", decoded.Message, c.Message)
	}
}

func TestCommitEncode_NoParent(t *testing.T) {
	c := Commit{
		Tree:      EmptyTreeDigest,
		Author:    "bit user <user@bit>",
		Committer: "bit user <user@bit>",
		AuthorSec: 1700000000,
		CommitSec: 1700000000,
		Message:   "initial\n",
	}
	decoded, err := decodeCommit(encodeCommit(c))
	if err != nil {
		t.Fatalf("decodeCommit: %v", err)
	}
	if len(decoded.Parents) != 0 {
		t.Errorf("expected no parents, got %v", decoded.Parents)
	}
}
