package vcs

import (
	"fmt"
	"time"
)

// GetCommit loads and decodes the commit object at digest d.
func (repo *Repository) GetCommit(d Digest) (Commit, error) {
	t, content, err := repo.store.Get(d)
	if err != nil {
		return Commit{}, err
	}
	if t != TypeCommit {
		return Commit{}, NewTypeMismatchError(string(d), string(TypeCommit), string(t))
	}
	return decodeCommit(content)
}

// Commit runs the commit engine (§4.7): it resolves the current branch,
// builds a tree from the index, and — unless the index is empty or
// matches the parent commit's tree exactly — writes a new commit object,
// advances the branch pointer, and clears the index.
//
// ErrNothingToCommit is returned (not a fatal error) for the two
// no-op cases; callers should report it to standard output and exit 0.
func (repo *Repository) Commit(message, author string) (Digest, error) {
	if message == "" {
		return "", NewEmptyCommitMessageError()
	}
	branch, err := repo.refs.CurrentBranch()
	if err != nil {
		return "", err
	}
	if repo.index.Len() == 0 {
		return "", ErrNothingToCommit
	}

	treeDigest, err := repo.BuildTree(repo.index)
	if err != nil {
		return "", fmt.Errorf("build tree: %w", err)
	}

	var parents []Digest
	parentDigest, hasParent, err := repo.refs.ReadBranch(branch)
	if err != nil {
		return "", err
	}
	if hasParent {
		parents = append(parents, parentDigest)
		parentCommit, err := repo.GetCommit(parentDigest)
		if err != nil {
			return "", fmt.Errorf("load parent commit: %w", err)
		}
		if parentCommit.Tree == treeDigest {
			return "", ErrNothingToCommit
		}
	}

	now := time.Now().Unix()
	commit := Commit{
		Tree:      treeDigest,
		Parents:   parents,
		Author:    author,
		Committer: author,
		AuthorSec: now,
		CommitSec: now,
		Message:   message,
	}
	d, err := repo.store.Put(TypeCommit, encodeCommit(commit))
	if err != nil {
		return "", fmt.Errorf("write commit: %w", err)
	}
	if err := repo.refs.WriteBranch(branch, d); err != nil {
		return "", fmt.Errorf("advance branch %s: %w", branch, err)
	}
	repo.index.Clear()
	if err := repo.index.save(); err != nil {
		return "", fmt.Errorf("clear index: %w", err)
	}
	repo.Logger().Info("committed", "digest", d.Short(), "branch", branch)
	return d, nil
}

// FirstParentLog walks the first-parent chain starting at HEAD, newest
// first, stopping after n commits (n <= 0 means unlimited).
func (repo *Repository) FirstParentLog(n int) ([]Commit, error) {
	head, hasCommit, err := repo.refs.ResolveHead()
	if err != nil {
		return nil, err
	}
	if !hasCommit {
		return nil, NewNoCommitsYetError()
	}
	var out []Commit
	d := head
	for d != "" && (n <= 0 || len(out) < n) {
		c, err := repo.GetCommit(d)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		if len(c.Parents) == 0 {
			break
		}
		d = c.Parents[0]
	}
	return out, nil
}
