package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rybkr/bit/internal/vcs"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (d *Dashboard) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	st, err := d.repo.ComputeStatus()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, st)
}

func (d *Dashboard) handleLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid n", http.StatusBadRequest)
			return
		}
		n = parsed
	}
	views, err := d.commitLog(n)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, views)
}

func (d *Dashboard) handleCommit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	hash := strings.TrimPrefix(r.URL.Path, "/api/commits/")
	if hash == "" {
		http.Error(w, "missing commit digest", http.StatusBadRequest)
		return
	}
	digest, err := vcs.NewDigest(hash)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, err := d.repo.GetCommit(digest)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	html, err := renderMarkdown(c.Message)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, struct {
		CommitView
		MessageHTML string `json:"messageHtml"`
	}{
		CommitView:  toCommitView(digest, c),
		MessageHTML: html,
	})
}

// commitLog walks the first-parent chain and pairs each decoded commit
// with its own digest, since FirstParentLog returns bodies only.
func (d *Dashboard) commitLog(n int) ([]CommitView, error) {
	head, hasCommit, err := d.repo.Refs().ResolveHead()
	if err != nil {
		return nil, err
	}
	if !hasCommit {
		return nil, nil
	}
	var out []CommitView
	digest := head
	for digest != "" && (n <= 0 || len(out) < n) {
		c, err := d.repo.GetCommit(digest)
		if err != nil {
			return nil, err
		}
		out = append(out, toCommitView(digest, c))
		if len(c.Parents) == 0 {
			break
		}
		digest = c.Parents[0]
	}
	return out, nil
}

func toCommitView(d vcs.Digest, c vcs.Commit) CommitView {
	parents := make([]string, len(c.Parents))
	for i, p := range c.Parents {
		parents[i] = string(p)
	}
	return CommitView{
		Digest:    string(d),
		Tree:      string(c.Tree),
		Parents:   parents,
		Author:    c.Author,
		Committer: c.Committer,
		Message:   c.Message,
	}
}
