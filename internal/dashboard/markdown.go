package dashboard

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// renderMarkdown renders a commit message body to HTML. Commit messages
// are free-form text, and many contain Markdown-ish bodies in practice
// (the same assumption GitHub's own commit view makes), so the dashboard
// renders them rather than escaping and printing raw text only.
func renderMarkdown(message string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(message), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
