package vcs

import (
	"encoding/hex"
	"fmt"
)

// digestSize is the length in bytes of the raw (non-hex) object digest.
const digestSize = 20

// Digest is a 40-character lowercase-hex-encoded object identifier: the
// hash of an object's uncompressed envelope.
type Digest string

// EmptyTreeDigest is the well-known digest of a tree with no entries —
// the envelope "tree 0\x00" with empty content.
const EmptyTreeDigest Digest = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// NewDigest validates a 40-character hex string and returns it as a Digest.
func NewDigest(s string) (Digest, error) {
	if len(s) != digestSize*2 {
		return "", fmt.Errorf("invalid digest length: %d", len(s))
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("invalid digest: %w", err)
	}
	if len(raw) != digestSize {
		return "", fmt.Errorf("invalid digest: decoded to %d bytes", len(raw))
	}
	return Digest(s), nil
}

// digestFromRaw hex-encodes a 20-byte raw digest.
func digestFromRaw(raw []byte) Digest {
	return Digest(hex.EncodeToString(raw))
}

// raw decodes the digest back to its 20 raw bytes. Only called on digests
// already produced by NewDigest or digestFromRaw, so the error is not
// expected in practice.
func (d Digest) raw() ([]byte, error) {
	b, err := hex.DecodeString(string(d))
	if err != nil {
		return nil, fmt.Errorf("invalid digest %q: %w", d, err)
	}
	if len(b) != digestSize {
		return nil, fmt.Errorf("invalid digest %q: wrong length", d)
	}
	return b, nil
}

// Short returns the first 7 characters of the digest, used for log
// output and `log --oneline`.
func (d Digest) Short() string {
	if len(d) < 7 {
		return string(d)
	}
	return string(d)[:7]
}

// IsZero reports whether d is the empty string, i.e. "no digest".
func (d Digest) IsZero() bool { return d == "" }
