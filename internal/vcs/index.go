package vcs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Index is the staging map from working-tree-relative paths (always
// slash-separated) to blob digests.
type Index struct {
	path    string
	entries map[string]Digest
}

func newIndex(path string) *Index {
	return &Index{path: path, entries: make(map[string]Digest)}
}

// loadIndex reads the persisted index. A missing file yields an empty
// index rather than an error, matching the staging map's lifecycle: it
// doesn't exist until the first `add`.
//
// Each record is "<40-hex digest> SP <decimal path length> NUL <path
// bytes> LF" — a length prefix rather than escaping, so any byte sequence
// in a path round-trips losslessly.
func loadIndex(path string) (*Index, error) {
	idx := newIndex(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return idx, nil
		}
		return nil, fmt.Errorf("open index: %w", err)
	}

	pos := 0
	for pos < len(data) {
		if pos+digestSize*2+1 > len(data) {
			return nil, fmt.Errorf("read index: truncated record")
		}
		digestHex := string(data[pos : pos+digestSize*2])
		pos += digestSize * 2
		if data[pos] != ' ' {
			return nil, fmt.Errorf("read index: expected space after digest")
		}
		pos++
		nul := bytes.IndexByte(data[pos:], 0)
		if nul < 0 {
			return nil, fmt.Errorf("read index: missing NUL after length")
		}
		lenStr := string(data[pos : pos+nul])
		pos += nul + 1
		n, err := strconv.Atoi(lenStr)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("read index: invalid path length %q", lenStr)
		}
		if pos+n+1 > len(data) {
			return nil, fmt.Errorf("read index: truncated path")
		}
		pathBytes := data[pos : pos+n]
		pos += n
		if data[pos] != '\n' {
			return nil, fmt.Errorf("read index: expected newline after path")
		}
		pos++
		d, err := NewDigest(digestHex)
		if err != nil {
			return nil, fmt.Errorf("read index: %w", err)
		}
		idx.entries[string(pathBytes)] = d
	}
	return idx, nil
}

// save performs a total rewrite of the index file, written to a temp
// file and renamed into place to limit torn writes.
func (idx *Index) save() error {
	var buf bytes.Buffer
	for path, d := range idx.entries {
		fmt.Fprintf(&buf, "%s %d\x00%s\n", d, len(path), path)
	}
	dir := filepath.Dir(idx.path)
	tmp, err := os.CreateTemp(dir, "index-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp index: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.Rename(tmpName, idx.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("finalize index: %w", err)
	}
	return nil
}

// Put stages path at the given blob digest.
func (idx *Index) Put(path string, d Digest) { idx.entries[path] = d }

// Get returns the staged digest for path, if any.
func (idx *Index) Get(path string) (Digest, bool) {
	d, ok := idx.entries[path]
	return d, ok
}

// Remove unstages path.
func (idx *Index) Remove(path string) { delete(idx.entries, path) }

// Clear empties the index in memory; callers must call save to persist.
func (idx *Index) Clear() { idx.entries = make(map[string]Digest) }

// Len reports the number of staged paths.
func (idx *Index) Len() int { return len(idx.entries) }

// Iter returns a snapshot copy of the staged path→digest map.
func (idx *Index) Iter() map[string]Digest {
	cp := make(map[string]Digest, len(idx.entries))
	for k, v := range idx.entries {
		cp[k] = v
	}
	return cp
}
