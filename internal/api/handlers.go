package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
)

// summaryEntry is one listed artifact.
type summaryEntry struct {
	Path        string `json:"path"`         // summary .md, relative to the output root
	MetaPath    string `json:"meta_path"`    // sibling metadata .json
	Mode        string `json:"mode"`         // file, node, master, cross
	SummaryID   string `json:"summary_id"`   // from metadata, when readable
	Category    string `json:"category"`     //
	GeneratedAt string `json:"generated_at"` //
}

// handleListSummaries walks the output tree and lists every summary that
// has a metadata file, optionally filtered by ?mode=.
func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	modeFilter := r.URL.Query().Get("mode")

	var entries []summaryEntry
	err := filepath.WalkDir(s.outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !strings.HasSuffix(d.Name(), "_meta.json") {
			return nil
		}

		rel, err := filepath.Rel(s.outputDir, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		mode := strings.TrimSuffix(strings.SplitN(rel, "/", 2)[0], "-level")
		if modeFilter != "" && mode != modeFilter {
			return nil
		}

		entry := summaryEntry{
			Path:     strings.TrimSuffix(rel, "_meta.json") + "_summary.md",
			MetaPath: rel,
			Mode:     mode,
		}
		if data, err := os.ReadFile(path); err == nil {
			var meta map[string]any
			if json.Unmarshal(data, &meta) == nil {
				entry.SummaryID, _ = meta["summary_id"].(string)
				entry.Category, _ = meta["category"].(string)
				entry.GeneratedAt, _ = meta["generated_timestamp"].(string)
				if st, ok := meta["summary_type"].(string); ok {
					entry.Mode = st
				}
			}
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		jsonError(w, "failed to list summaries: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []summaryEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"summaries": entries, "count": len(entries)})
}

// handleSummaryMeta returns the metadata document for one summary,
// addressed by its listing path.
func (s *Server) handleSummaryMeta(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get("path")
	if rel == "" {
		jsonError(w, "path query parameter is required", http.StatusBadRequest)
		return
	}
	full, ok := s.resolve(rel)
	if !ok || !strings.HasSuffix(full, "_meta.json") {
		jsonError(w, "invalid path", http.StatusBadRequest)
		return
	}

	data, err := os.ReadFile(full)
	if err != nil {
		jsonError(w, "metadata not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleView renders a Markdown summary as HTML.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	full, ok := s.resolve(rel)
	if !ok || !strings.HasSuffix(full, ".md") {
		jsonError(w, "invalid path", http.StatusBadRequest)
		return
	}

	src, err := os.ReadFile(full)
	if err != nil {
		jsonError(w, "summary not found", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		jsonError(w, "failed to render summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><title>%s</title></head><body>\n", filepath.Base(full))
	w.Write(buf.Bytes())
	w.Write([]byte("\n</body></html>\n"))
}

// resolve maps a request-supplied relative path to a file inside the
// output directory, rejecting traversal outside it.
func (s *Server) resolve(rel string) (string, bool) {
	full := filepath.Join(s.outputDir, filepath.FromSlash(rel))
	root, err := filepath.Abs(s.outputDir)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", false
	}
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", false
	}
	return abs, true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
