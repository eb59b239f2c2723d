package vcs

import (
	"fmt"
	"os"
	"path/filepath"
)

// TreeFile is one (path, digest) pair produced by walking a tree.
type TreeFile struct {
	Path string
	Dig  Digest
}

// ListTree recursively enumerates every file entry reachable from root,
// yielding slash-joined paths relative to root. Unknown modes are
// skipped; a non-tree object found where a subdirectory was expected
// fails with TypeMismatchError.
func (repo *Repository) ListTree(root Digest) ([]TreeFile, error) {
	var out []TreeFile
	if err := repo.walkTree(root, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (repo *Repository) walkTree(d Digest, prefix string, out *[]TreeFile) error {
	t, content, err := repo.store.Get(d)
	if err != nil {
		return err
	}
	if t != TypeTree {
		return NewTypeMismatchError(string(d), string(TypeTree), string(t))
	}
	entries, err := decodeTree(content)
	if err != nil {
		return err
	}
	for _, e := range entries {
		switch e.Mode {
		case modeFile:
			*out = append(*out, TreeFile{Path: prefix + e.Name, Dig: e.Dig})
		case modeDir:
			if err := repo.walkTree(e.Dig, prefix+e.Name+"/", out); err != nil {
				return err
			}
		default:
			// Unknown mode: skipped per the tree walker's contract.
		}
	}
	return nil
}

// MaterializeTree writes every file reachable from root into targetDir,
// creating parent directories as needed and overwriting existing files.
// Failures abort the operation; partial materialization is possible on
// error, matching checkout's "failures are fatal" contract.
func (repo *Repository) MaterializeTree(root Digest, targetDir string) error {
	files, err := repo.ListTree(root)
	if err != nil {
		return err
	}
	for _, f := range files {
		_, content, err := repo.store.Get(f.Dig)
		if err != nil {
			return fmt.Errorf("materialize %s: %w", f.Path, err)
		}
		dest := filepath.Join(targetDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("materialize %s: %w", f.Path, err)
		}
		if err := os.WriteFile(dest, content, 0o644); err != nil {
			return fmt.Errorf("materialize %s: %w", f.Path, err)
		}
	}
	return nil
}
