package vcs

import "testing"

func TestEnvelopeAndDigest_KnownVectors(t *testing.T) {
	tests := []struct {
		name    string
		objType ObjectType
		content []byte
		want    Digest
	}{
		{
			name:    "empty tree",
			objType: TypeTree,
			content: nil,
			want:    EmptyTreeDigest,
		},
		{
			name:    "hello blob",
			objType: TypeBlob,
			content: []byte("hello\n"),
			want:    "ce013625030ba8dba906f756967f9e9ca394464a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := digest(envelope(tt.objType, tt.content))
			if got != tt.want {
				t.Errorf("digest(envelope(%s, %q)) = %s, want %s", tt.objType, tt.content, got, tt.want)
			}
		})
	}
}

func TestParseEnvelope_RoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("hello\n"),
		[]byte("line1\nline2\n"),
		repeatByte('x', 4096),
	}
	for _, content := range cases {
		env := envelope(TypeBlob, content)
		gotType, gotContent, err := parseEnvelope(env)
		if err != nil {
			t.Fatalf("parseEnvelope: %v", err)
		}
		if gotType != TypeBlob {
			t.Errorf("type = %s, want blob", gotType)
		}
		if string(gotContent) != string(content) {
			t.Errorf("content mismatch: got %q want %q", gotContent, content)
		}
	}
}

func repeatByte(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func TestParseEnvelope_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"missing nul", []byte("blob 5hello")},
		{"missing space", []byte("blob5\x00hello")},
		{"unknown type", []byte("widget 5\x00hello")},
		{"length mismatch", []byte("blob 3\x00hello")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseEnvelope(tt.in); err == nil {
				t.Errorf("expected error for %q", tt.in)
			}
		})
	}
}

func TestCompressDecompress_RoundTrip(t *testing.T) {
	cases := [][]byte{nil, []byte("x"), []byte("hello\n"), repeatByte('a', 10000)}
	for _, b := range cases {
		compressed, err := compress(b)
		if err != nil {
			t.Fatalf("compress: %v", err)
		}
		got, err := decompress(compressed)
		if err != nil {
			t.Fatalf("decompress: %v", err)
		}
		if string(got) != string(b) {
			t.Errorf("round trip mismatch: got %q want %q", got, b)
		}
	}
}
