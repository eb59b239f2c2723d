package vcs

import (
	"bytes"
	"compress/zlib"
	"crypto/sha1"
	"io"
	"strconv"
)

// ObjectType names one of the three object kinds, using the exact ASCII
// tag that appears in an object's envelope header.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

func (t ObjectType) valid() bool {
	switch t {
	case TypeBlob, TypeTree, TypeCommit:
		return true
	default:
		return false
	}
}

// envelope frames content with its type tag and decimal length:
// "<type> SP <length> NUL <content>".
func envelope(t ObjectType, content []byte) []byte {
	header := string(t) + " " + strconv.Itoa(len(content))
	buf := make([]byte, 0, len(header)+1+len(content))
	buf = append(buf, header...)
	buf = append(buf, 0)
	buf = append(buf, content...)
	return buf
}

// digest hashes an envelope's raw (uncompressed) bytes and renders the
// result as 40 lowercase hex characters.
func digest(envelopeBytes []byte) Digest {
	sum := sha1.Sum(envelopeBytes)
	return digestFromRaw(sum[:])
}

// parseEnvelope splits envelope bytes back into a type and content,
// validating that the declared length matches the actual content length.
func parseEnvelope(b []byte) (ObjectType, []byte, error) {
	nul := bytes.IndexByte(b, 0)
	if nul < 0 {
		return "", nil, NewMalformedObjectError("missing NUL terminator in header")
	}
	header := b[:nul]
	sp := bytes.IndexByte(header, ' ')
	if sp < 0 {
		return "", nil, NewMalformedObjectError("missing space in header")
	}
	t := ObjectType(header[:sp])
	if !t.valid() {
		return "", nil, NewMalformedObjectError("unknown object type: " + string(t))
	}
	length, err := strconv.Atoi(string(header[sp+1:]))
	if err != nil || length < 0 {
		return "", nil, NewMalformedObjectError("invalid length field: " + string(header[sp+1:]))
	}
	content := b[nul+1:]
	if length != len(content) {
		return "", nil, NewMalformedObjectError("declared length does not match content length")
	}
	return t, content, nil
}

// compress deflates bytes with zlib, the standard deflate-family codec
// used to store envelopes on disk.
func compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// maxInflatedSize guards decompress against a maliciously or accidentally
// huge object inflating without bound.
const maxInflatedSize = 512 * 1024 * 1024

// decompress inflates zlib-compressed bytes back to the original envelope.
func decompress(b []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out, err := io.ReadAll(io.LimitReader(r, maxInflatedSize+1))
	if err != nil {
		return nil, err
	}
	if len(out) > maxInflatedSize {
		return nil, io.ErrUnexpectedEOF
	}
	return out, nil
}

// hexDigestOf is a convenience used by the working-tree scan: hash file
// bytes as a blob envelope without touching the object store.
func hexDigestOf(t ObjectType, content []byte) Digest {
	return digest(envelope(t, content))
}
