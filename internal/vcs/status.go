package vcs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// StagedKind describes the staged-relative-to-HEAD state of one path.
type StagedKind string

const (
	StagedNewFile  StagedKind = "new file"
	StagedModified StagedKind = "modified"
)

// StagedEntry is one path reported in the "staged" section.
type StagedEntry struct {
	Path string
	Kind StagedKind
}

// Status is the full three-way diff described in §4.8: HEAD-tree vs
// index vs scanned working tree.
type Status struct {
	Staged    []StagedEntry
	Unstaged  []string // modified in the working tree relative to the index
	Untracked []string
	Deleted   []string // staged but removed from the working tree
}

// ComputeStatus derives staged/unstaged/untracked/deleted sets.
//
// H = HEAD-tree files, I = index, W = working-tree scan (excluding the
// metadata directory). See §4.8 for the exact derivation this mirrors.
func (repo *Repository) ComputeStatus() (*Status, error) {
	h, err := repo.headTreeFiles()
	if err != nil {
		return nil, fmt.Errorf("compute status: %w", err)
	}
	idx := repo.index.Iter()

	st := &Status{}

	for path, id := range idx {
		hd, inHead := h[path]
		switch {
		case !inHead:
			st.Staged = append(st.Staged, StagedEntry{Path: path, Kind: StagedNewFile})
		case hd != id:
			st.Staged = append(st.Staged, StagedEntry{Path: path, Kind: StagedModified})
		}
	}
	// A path in H but absent from I (removed from the index without a
	// working-tree deletion) is omitted from Staged, per §4.8.

	tracked := make(map[string]struct{}, len(idx))
	for path, id := range idx {
		tracked[path] = struct{}{}
		diskPath := filepath.Join(repo.workDir, filepath.FromSlash(path))
		content, err := os.ReadFile(diskPath)
		if err != nil {
			if os.IsNotExist(err) {
				st.Deleted = append(st.Deleted, path)
				continue
			}
			return nil, fmt.Errorf("compute status: read %s: %w", path, err)
		}
		if hexDigestOf(TypeBlob, content) != id {
			st.Unstaged = append(st.Unstaged, path)
		}
	}

	walkErr := filepath.WalkDir(repo.workDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && d.Name() == metadataDirName && filepath.Dir(path) == repo.workDir {
			return filepath.SkipDir
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(repo.workDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if _, isTracked := tracked[rel]; isTracked {
			return nil
		}
		if _, inHead := h[rel]; inHead {
			return nil
		}
		st.Untracked = append(st.Untracked, rel)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("compute status: walk working tree: %w", walkErr)
	}

	return st, nil
}

// headTreeFiles flattens the current branch's HEAD commit tree into a
// path→digest map. A repository with no commits yet yields an empty map.
func (repo *Repository) headTreeFiles() (map[string]Digest, error) {
	headDigest, hasCommit, err := repo.refs.ResolveHead()
	if err != nil {
		return nil, err
	}
	if !hasCommit {
		return map[string]Digest{}, nil
	}
	commit, err := repo.GetCommit(headDigest)
	if err != nil {
		return nil, err
	}
	files, err := repo.ListTree(commit.Tree)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Digest, len(files))
	for _, f := range files {
		out[f.Path] = f.Dig
	}
	return out, nil
}
