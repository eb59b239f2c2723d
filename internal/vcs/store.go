package vcs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store is the content-addressed object store: it persists compressed
// envelopes under a fan-out directory layout keyed by their digest, and
// loads them back by digest. Writes are idempotent — re-inserting an
// existing digest is a no-op, since identical digests mean identical
// bytes.
type Store struct {
	objectsDir string
}

// newStore returns a Store rooted at the given objects directory (the
// metadata directory's "objects" subdirectory).
func newStore(objectsDir string) *Store {
	return &Store{objectsDir: objectsDir}
}

func (s *Store) pathFor(d Digest) string {
	return filepath.Join(s.objectsDir, string(d)[:2], string(d)[2:])
}

// Has reports whether an object with the given digest already exists.
func (s *Store) Has(d Digest) bool {
	_, err := os.Stat(s.pathFor(d))
	return err == nil
}

// Put compresses and writes an object's envelope, returning its digest.
// If an object with that digest already exists, Put is a no-op.
func (s *Store) Put(t ObjectType, content []byte) (Digest, error) {
	env := envelope(t, content)
	d := digest(env)
	path := s.pathFor(d)
	if _, err := os.Stat(path); err == nil {
		return d, nil
	}
	compressed, err := compress(env)
	if err != nil {
		return "", fmt.Errorf("compress object %s: %w", d, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create object directory for %s: %w", d, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "obj-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file for %s: %w", d, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write object %s: %w", d, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close object %s: %w", d, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("finalize object %s: %w", d, err)
	}
	return d, nil
}

// Get loads and decodes the envelope for the given digest.
func (s *Store) Get(d Digest) (ObjectType, []byte, error) {
	raw, err := os.ReadFile(s.pathFor(d))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, NewObjectNotFoundError(string(d))
		}
		return "", nil, fmt.Errorf("read object %s: %w", d, err)
	}
	env, err := decompress(raw)
	if err != nil {
		return "", nil, NewCorruptObjectError(string(d), err)
	}
	t, content, err := parseEnvelope(env)
	if err != nil {
		return "", nil, err
	}
	return t, content, nil
}
