package cache

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestManager_MarkAndCheck(t *testing.T) {
	m := NewManager(t.TempDir(), true, testLogger())

	fp := m.Hash("some summarized content")
	if m.IsCached(fp) {
		t.Error("expected fingerprint not cached before marking")
	}

	m.MarkCached(fp, nil)
	if !m.IsCached(fp) {
		t.Error("expected fingerprint cached after marking")
	}

	// Marking again is idempotent.
	m.MarkCached(fp, nil)
	if !m.IsCached(fp) {
		t.Error("expected fingerprint still cached")
	}
}

func TestManager_HashDeterministic(t *testing.T) {
	m := NewManager(t.TempDir(), true, testLogger())
	if m.Hash("abc") != m.Hash("abc") {
		t.Error("expected identical hashes for identical content")
	}
	if m.Hash("abc") == m.Hash("abd") {
		t.Error("expected different hashes for different content")
	}
}

func TestManager_Metadata(t *testing.T) {
	m := NewManager(t.TempDir(), true, testLogger())

	fp := m.Hash("content")
	m.MarkCached(fp, map[string]any{"summary_file": "out/a_summary.md"})

	meta, ok := m.Metadata(fp)
	if !ok {
		t.Fatal("expected metadata for marked fingerprint")
	}
	if meta["summary_file"] != "out/a_summary.md" {
		t.Errorf("expected stored summary_file, got %v", meta["summary_file"])
	}

	if _, ok := m.Metadata(m.Hash("unmarked")); ok {
		t.Error("expected no metadata for unmarked fingerprint")
	}
}

func TestManager_Disabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	m := NewManager(dir, false, testLogger())

	if m.Enabled() {
		t.Error("expected manager disabled")
	}

	fp := m.Hash("content")
	m.MarkCached(fp, nil)
	if m.IsCached(fp) {
		t.Error("expected disabled manager to never report cached")
	}

	// A disabled manager must not create its directory.
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("expected cache directory absent, stat err = %v", err)
	}
}

func TestManager_Clear(t *testing.T) {
	m := NewManager(t.TempDir(), true, testLogger())

	fps := []string{m.Hash("a"), m.Hash("b"), m.Hash("c")}
	for _, fp := range fps {
		m.MarkCached(fp, nil)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, fp := range fps {
		if m.IsCached(fp) {
			t.Errorf("expected fingerprint %s cleared", fp[:8])
		}
	}
}
