package vcs

import (
	"fmt"
	"os"
	"path/filepath"
)

// Checkout runs the checkout engine (§4.9): it switches HEAD to branch,
// clears the previous branch's tree files from the working directory,
// materializes the target branch's tree, and clears the index.
//
// create controls behavior when branch has no ref file yet: false means
// report BranchNotFoundError; true creates the branch pointing at the
// current commit (or fails with NoCommitsYetError if there is none).
//
// Checkout is destructive by design: no dirty-working-tree protection.
func (repo *Repository) Checkout(branch string, create bool) error {
	prevFiles, err := repo.currentBranchFiles()
	if err != nil {
		return err
	}

	_, exists, err := repo.refs.ReadBranch(branch)
	if err != nil {
		return err
	}
	if !exists {
		if !create {
			return NewBranchNotFoundError(branch)
		}
		head, hasCommit, err := repo.refs.ResolveHead()
		if err != nil {
			return err
		}
		if !hasCommit {
			return NewNoCommitsYetError()
		}
		if err := repo.refs.WriteBranch(branch, head); err != nil {
			return fmt.Errorf("create branch %s: %w", branch, err)
		}
	}

	for _, f := range prevFiles {
		path := filepath.Join(repo.workDir, filepath.FromSlash(f.Path))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			repo.Logger().Warn("checkout: failed to remove file", "path", f.Path, "err", err)
		}
	}

	if err := repo.refs.SetHeadSymbolic(branch); err != nil {
		return fmt.Errorf("switch HEAD to %s: %w", branch, err)
	}

	target, hasCommit, err := repo.refs.ReadBranch(branch)
	if err != nil {
		return err
	}
	if hasCommit {
		commit, err := repo.GetCommit(target)
		if err != nil {
			return fmt.Errorf("load commit for %s: %w", branch, err)
		}
		if err := repo.MaterializeTree(commit.Tree, repo.workDir); err != nil {
			return fmt.Errorf("materialize %s: %w", branch, err)
		}
	}

	repo.index.Clear()
	if err := repo.index.save(); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	repo.Logger().Info("checked out", "branch", branch)
	return nil
}

// currentBranchFiles enumerates the file set of the branch HEAD currently
// points at, before it is switched away from.
func (repo *Repository) currentBranchFiles() ([]TreeFile, error) {
	head, hasCommit, err := repo.refs.ResolveHead()
	if err != nil {
		return nil, err
	}
	if !hasCommit {
		return nil, nil
	}
	commit, err := repo.GetCommit(head)
	if err != nil {
		return nil, err
	}
	return repo.ListTree(commit.Tree)
}
