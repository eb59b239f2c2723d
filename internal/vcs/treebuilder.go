package vcs

import "strings"

// trieNode is one level of the path trie folded from the flat index:
// a file-name→digest map for entries at this level, plus a
// child-name→child-node map for subdirectories. Built as an owned
// recursive value, consumed post-order, then dropped.
type trieNode struct {
	files    map[string]Digest
	children map[string]*trieNode
}

func newTrieNode() *trieNode {
	return &trieNode{files: make(map[string]Digest), children: make(map[string]*trieNode)}
}

// buildTrie splits every index path on '/' and inserts it into the trie,
// rejecting empty components and components containing NUL.
func buildTrie(entries map[string]Digest) (*trieNode, error) {
	root := newTrieNode()
	for path, d := range entries {
		parts := strings.Split(path, "/")
		node := root
		for i, part := range parts {
			if part == "" {
				return nil, NewInvalidPathError(path, "empty path component")
			}
			if strings.ContainsRune(part, 0) {
				return nil, NewInvalidPathError(path, "path component contains NUL")
			}
			last := i == len(parts)-1
			if last {
				if _, isDir := node.children[part]; isDir {
					return nil, NewTreeConflictError(part)
				}
				node.files[part] = d
				continue
			}
			if _, isFile := node.files[part]; isFile {
				return nil, NewTreeConflictError(part)
			}
			child, ok := node.children[part]
			if !ok {
				child = newTrieNode()
				node.children[part] = child
			}
			node = child
		}
	}
	return root, nil
}

// BuildTree folds the index into nested tree objects, persisting each one,
// and returns the root tree's digest. An empty index yields the
// well-known empty-tree digest.
func (repo *Repository) BuildTree(idx *Index) (Digest, error) {
	entries := idx.Iter()
	if len(entries) == 0 {
		return repo.store.Put(TypeTree, nil)
	}
	root, err := buildTrie(entries)
	if err != nil {
		return "", err
	}
	return repo.persistTrieNode(root)
}

// persistTrieNode post-order traverses the trie: children are persisted
// before their parent's tree object is built, since the parent's entry
// needs the child's digest.
func (repo *Repository) persistTrieNode(node *trieNode) (Digest, error) {
	var entries []TreeEntry
	for name, d := range node.files {
		entries = append(entries, TreeEntry{Mode: modeFile, Name: name, Dig: d})
	}
	for name, child := range node.children {
		childDigest, err := repo.persistTrieNode(child)
		if err != nil {
			return "", err
		}
		entries = append(entries, TreeEntry{Mode: modeDir, Name: name, Dig: childDigest})
	}
	content, err := encodeTree(entries)
	if err != nil {
		return "", err
	}
	return repo.store.Put(TypeTree, content)
}
