package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer persists summary artifacts: a Markdown file holding the raw
// summary text and a sibling JSON file holding its metadata. Artifacts
// are write-once; re-running with a warm cache never reaches the writer.
type Writer struct {
	log *slog.Logger
}

func NewWriter(log *slog.Logger) *Writer {
	return &Writer{log: log}
}

// WriteSummary writes the summary text to a Markdown file, creating
// parent directories as needed.
func (w *Writer) WriteSummary(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	w.log.Info("summary written", "path", path)
	return nil
}

// WriteMetadata writes the metadata mapping as indented JSON.
func (w *Writer) WriteMetadata(path string, meta map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}
