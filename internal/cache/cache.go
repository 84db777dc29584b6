package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// Manager is a content-addressed gate over summarization work. A
// fingerprint that has been marked means "already produced"; marker files
// live in the cache directory, one per fingerprint, optionally holding
// JSON metadata.
//
// A disabled Manager is fully inert: IsCached always reports false,
// MarkCached is a no-op, and no directory is ever created.
type Manager struct {
	dir     string
	enabled bool
	log     *slog.Logger
}

// NewManager creates the cache directory if caching is enabled. If the
// directory cannot be created, caching is disabled for the run rather than
// failing the batch.
func NewManager(dir string, enabled bool, log *slog.Logger) *Manager {
	m := &Manager{dir: dir, enabled: enabled, log: log}
	if m.enabled {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("failed to create cache directory, disabling cache", "dir", dir, "error", err)
			m.enabled = false
		}
	}
	return m
}

// Enabled reports whether caching is active.
func (m *Manager) Enabled() bool {
	return m.enabled
}

// Hash returns the SHA-256 fingerprint of content as a hex string.
func (m *Manager) Hash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func (m *Manager) path(fingerprint string) string {
	return filepath.Join(m.dir, fingerprint+".cache")
}

// IsCached reports whether a fingerprint has been marked.
func (m *Manager) IsCached(fingerprint string) bool {
	if !m.enabled {
		return false
	}
	_, err := os.Stat(m.path(fingerprint))
	return err == nil
}

// MarkCached records a fingerprint, optionally with JSON metadata. Once
// marked, a fingerprint stays marked for the rest of the run.
func (m *Manager) MarkCached(fingerprint string, metadata map[string]any) {
	if !m.enabled {
		return
	}
	var data []byte
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			m.log.Error("cache metadata not serializable", "fingerprint", fingerprint, "error", err)
		} else {
			data = b
		}
	}
	if err := os.WriteFile(m.path(fingerprint), data, 0o644); err != nil {
		m.log.Error("failed to write cache marker", "fingerprint", fingerprint, "error", err)
	}
}

// Metadata returns the metadata stored with a marked fingerprint, if any.
func (m *Manager) Metadata(fingerprint string) (map[string]any, bool) {
	if !m.IsCached(fingerprint) {
		return nil, false
	}
	data, err := os.ReadFile(m.path(fingerprint))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	var meta map[string]any
	if err := json.Unmarshal(data, &meta); err != nil {
		m.log.Error("failed to parse cache metadata", "fingerprint", fingerprint, "error", err)
		return nil, false
	}
	return meta, true
}

// Clear removes every marker from the cache directory.
func (m *Manager) Clear() error {
	if !m.enabled {
		return nil
	}
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
