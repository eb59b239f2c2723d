package vcs

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TreeEntry is one line of a decoded tree: a name, its mode ("100644" for
// a file or "40000" for a subdirectory), and the digest it points at.
type TreeEntry struct {
	Mode string
	Name string
	Dig  Digest
}

const (
	modeFile = "100644"
	modeDir  = "40000"
)

// sortTreeEntries orders entries canonically: ascending by (mode, name).
// This is the only order the encoder ever writes, independent of the
// order entries were constructed in.
func sortTreeEntries(entries []TreeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Mode != entries[j].Mode {
			return entries[i].Mode < entries[j].Mode
		}
		return entries[i].Name < entries[j].Name
	})
}

// encodeTree serializes entries into canonical tree content. Entries must
// already be free of duplicate names (the tree builder enforces this via
// TreeConflictError before calling in).
func encodeTree(entries []TreeEntry) ([]byte, error) {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sortTreeEntries(sorted)

	var buf bytes.Buffer
	for _, e := range sorted {
		if e.Name == "" || bytes.ContainsAny([]byte(e.Name), "/\x00") {
			return nil, NewInvalidPathError(e.Name, "empty, or contains '/' or NUL")
		}
		raw, err := e.Dig.raw()
		if err != nil {
			return nil, err
		}
		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// decodeTree parses tree content back into entries, in the order they
// appear in the bytes (already canonical, since the encoder always wrote
// them that way).
func decodeTree(content []byte) ([]TreeEntry, error) {
	var entries []TreeEntry
	for len(content) > 0 {
		nul := bytes.IndexByte(content, 0)
		if nul < 0 {
			return nil, NewMalformedObjectError("tree entry missing NUL before digest")
		}
		header := content[:nul]
		sp := bytes.IndexByte(header, ' ')
		if sp < 0 {
			return nil, NewMalformedObjectError("tree entry missing space between mode and name")
		}
		mode := string(header[:sp])
		name := string(header[sp+1:])
		rest := content[nul+1:]
		if len(rest) < digestSize {
			return nil, NewMalformedObjectError("tree entry truncated digest")
		}
		entries = append(entries, TreeEntry{
			Mode: mode,
			Name: name,
			Dig:  digestFromRaw(rest[:digestSize]),
		})
		content = rest[digestSize:]
	}
	return entries, nil
}

// Commit is the decoded form of a commit object.
type Commit struct {
	Tree      Digest
	Parents   []Digest
	Author    string
	Committer string
	AuthorSec int64
	CommitSec int64
	Message   string
}

const tzOffset = "+0000"

// encodeCommit renders a Commit into its canonical text form.
func encodeCommit(c Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.Tree)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s %d %s\n", c.Author, c.AuthorSec, tzOffset)
	fmt.Fprintf(&buf, "committer %s %d %s\n", c.Committer, c.CommitSec, tzOffset)
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// decodeCommit parses canonical commit text back into a Commit.
func decodeCommit(content []byte) (Commit, error) {
	text := string(content)
	headerEnd := bytes.Index(content, []byte("\n\n"))
	if headerEnd < 0 {
		return Commit{}, NewMalformedObjectError("commit missing header/message separator")
	}
	header := text[:headerEnd]
	message := text[headerEnd+2:]

	var c Commit
	c.Message = message
	for _, line := range strings.Split(header, "\n") {
		switch {
		case strings.HasPrefix(line, "tree "):
			d, err := NewDigest(line[len("tree "):])
			if err != nil {
				return Commit{}, NewMalformedObjectError("invalid tree digest: " + err.Error())
			}
			c.Tree = d
		case strings.HasPrefix(line, "parent "):
			d, err := NewDigest(line[len("parent "):])
			if err != nil {
				return Commit{}, NewMalformedObjectError("invalid parent digest: " + err.Error())
			}
			c.Parents = append(c.Parents, d)
		case strings.HasPrefix(line, "author "):
			id, sec, err := parseIdentityLine(line[len("author "):])
			if err != nil {
				return Commit{}, err
			}
			c.Author = id
			c.AuthorSec = sec
		case strings.HasPrefix(line, "committer "):
			id, sec, err := parseIdentityLine(line[len("committer "):])
			if err != nil {
				return Commit{}, err
			}
			c.Committer = id
			c.CommitSec = sec
		}
	}
	if c.Tree == "" {
		return Commit{}, NewMalformedObjectError("commit missing tree field")
	}
	return c, nil
}

// parseIdentityLine splits "<identity> <unix-seconds> <tz-offset>" from
// the tail of an author/committer line. Identity itself may contain
// spaces, so the split happens from the right.
func parseIdentityLine(s string) (identity string, sec int64, err error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return "", 0, NewMalformedObjectError("malformed author/committer line: " + s)
	}
	tsField := fields[len(fields)-2]
	identity = strings.Join(fields[:len(fields)-2], " ")
	sec, parseErr := strconv.ParseInt(tsField, 10, 64)
	if parseErr != nil {
		return "", 0, NewMalformedObjectError("invalid timestamp in author/committer line: " + s)
	}
	return identity, sec, nil
}
