package vcs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// metadataDirName is the authoritative metadata directory name per
// spec.md §9's resolution of the source's two disagreeing variants.
const metadataDirName = ".git"

// Repository is the façade over the object store, index, and ref store
// for one repository rooted at workDir. Callers own a single instance
// for the duration of one command; the engine is not designed for
// concurrent invocation on the same repository.
type Repository struct {
	workDir string
	gitDir  string
	store   *Store
	refs    *RefStore
	index   *Index
	logger  *slog.Logger
}

// FindRepositoryRoot walks upward from start looking for a metadataDirName
// directory, the way most VCS CLIs locate the repository root from any
// working subdirectory.
func FindRepositoryRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, metadataDirName)); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", NewNotARepositoryError(start)
		}
		dir = parent
	}
}

// Init creates a new repository rooted at workDir: the metadata
// directory, empty objects/ and refs/heads/ directories, HEAD pointing
// at refs/heads/master, and an empty index.
func Init(workDir string) (*Repository, error) {
	gitDir := filepath.Join(workDir, metadataDirName)
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		return nil, fmt.Errorf("repository already initialized at %s", gitDir)
	}
	if err := os.MkdirAll(filepath.Join(gitDir, "objects"), 0o755); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(gitDir, "refs", "heads"), 0o755); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	refs := newRefStore(gitDir)
	if err := refs.initHead(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	idx := newIndex(filepath.Join(gitDir, "index"))
	if err := idx.save(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	return &Repository{
		workDir: workDir,
		gitDir:  gitDir,
		store:   newStore(filepath.Join(gitDir, "objects")),
		refs:    refs,
		index:   idx,
		logger:  slog.Default(),
	}, nil
}

// Open loads an existing repository rooted at workDir, which must
// already contain the metadata directory.
func Open(workDir string) (*Repository, error) {
	gitDir := filepath.Join(workDir, metadataDirName)
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		return nil, NewNotARepositoryError(workDir)
	}
	idx, err := loadIndex(filepath.Join(gitDir, "index"))
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &Repository{
		workDir: workDir,
		gitDir:  gitDir,
		store:   newStore(filepath.Join(gitDir, "objects")),
		refs:    newRefStore(gitDir),
		index:   idx,
		logger:  slog.Default(),
	}, nil
}

// SetLogger overrides the repository's operational logger, nil-safe
// like slog itself: passing nil restores the default logger.
func (repo *Repository) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	repo.logger = l
}

// Logger returns the repository's operational logger.
func (repo *Repository) Logger() *slog.Logger { return repo.logger }

// WorkDir returns the repository's working directory.
func (repo *Repository) WorkDir() string { return repo.workDir }

// GitDir returns the repository's metadata directory.
func (repo *Repository) GitDir() string { return repo.gitDir }

// Refs exposes the ref store for callers that read HEAD or branch refs
// directly (the commit, log, and status commands, and the dashboard).
func (repo *Repository) Refs() *RefStore { return repo.refs }

// GetBlob loads a blob's raw content by digest.
func (repo *Repository) GetBlob(d Digest) ([]byte, error) {
	t, content, err := repo.store.Get(d)
	if err != nil {
		return nil, err
	}
	if t != TypeBlob {
		return nil, NewTypeMismatchError(string(d), string(TypeBlob), string(t))
	}
	return content, nil
}

// GetObject loads and decompresses the raw object at digest d, returning
// its type and content without interpreting either. Used by cat-file.
func (repo *Repository) GetObject(d Digest) (ObjectType, []byte, error) {
	return repo.store.Get(d)
}

// DecodeTreeContent exposes decodeTree for cat-file's pretty-printer,
// which already has a tree object's raw content from GetObject.
func (repo *Repository) DecodeTreeContent(content []byte) ([]TreeEntry, error) {
	return decodeTree(content)
}

// Add stages the file or directory at path (relative to, or absolute
// within, the working directory). Directories are staged recursively;
// the metadata directory is always excluded.
func (repo *Repository) Add(path string) error {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(repo.workDir, path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("add %s: %w", path, err)
	}
	if !info.IsDir() {
		if err := repo.stageFile(abs); err != nil {
			return err
		}
		return repo.index.save()
	}
	walkErr := filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == metadataDirName && filepath.Dir(p) == repo.workDir {
				return filepath.SkipDir
			}
			return nil
		}
		return repo.stageFile(p)
	})
	if walkErr != nil {
		return walkErr
	}
	return repo.index.save()
}

// stageFile hashes and stores a single file's content as a blob and
// records it in the in-memory index. Callers persist the index once
// after staging is complete.
func (repo *Repository) stageFile(abs string) error {
	content, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("stage %s: %w", abs, err)
	}
	rel, err := filepath.Rel(repo.workDir, abs)
	if err != nil {
		return fmt.Errorf("stage %s: %w", abs, err)
	}
	rel = filepath.ToSlash(rel)
	d, err := repo.store.Put(TypeBlob, content)
	if err != nil {
		return fmt.Errorf("stage %s: %w", rel, err)
	}
	repo.index.Put(rel, d)
	return nil
}

// CreateBranch creates refs/heads/<name> pointing at HEAD's current
// commit. Fails with NoCommitsYetError before the first commit, or
// BranchExistsError if the branch already has a ref file.
func (repo *Repository) CreateBranch(name string) error {
	_, exists, err := repo.refs.ReadBranch(name)
	if err != nil {
		return err
	}
	if exists {
		return NewBranchExistsError(name)
	}
	head, hasCommit, err := repo.refs.ResolveHead()
	if err != nil {
		return err
	}
	if !hasCommit {
		return NewNoCommitsYetError()
	}
	return repo.refs.WriteBranch(name, head)
}

// DeleteBranch removes refs/heads/<name>.
func (repo *Repository) DeleteBranch(name string) error {
	return repo.refs.DeleteBranch(name)
}

// ListBranches returns all branch names and the name of the branch HEAD
// currently points at (empty if HEAD is detached).
func (repo *Repository) ListBranches() (names []string, current string, err error) {
	names, err = repo.refs.ListBranches()
	if err != nil {
		return nil, "", err
	}
	current, err = repo.refs.CurrentBranch()
	if err != nil {
		return nil, "", err
	}
	return names, current, nil
}
