package chunker

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgallion1/docsum/internal/document"
)

func TestSplit_OverlapAndCoverage(t *testing.T) {
	text := strings.Repeat("a", 80) + strings.Repeat("b", 70) // 150 chars
	chunks := Split(text, 100, 20, "body")

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0].Content) != 100 {
		t.Errorf("expected first chunk of 100 chars, got %d", len(chunks[0].Content))
	}
	if len(chunks[1].Content) != 70 {
		t.Errorf("expected second chunk of 70 chars, got %d", len(chunks[1].Content))
	}
	// The tail of chunk 0 repeats as the head of chunk 1.
	if chunks[0].Content[80:] != chunks[1].Content[:20] {
		t.Errorf("expected 20-char overlap between chunks")
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
		if c.SectionName != "body" {
			t.Errorf("chunk %d: expected section name %q, got %q", i, "body", c.SectionName)
		}
	}
}

func TestSplit_Reconstruction(t *testing.T) {
	text := "abcdefghijklmnopqrstuvwxyz0123456789"
	overlap := 3
	chunks := Split(text, 10, overlap, "")

	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c.Content)
			continue
		}
		b.WriteString(c.Content[overlap:])
	}
	if b.String() != text {
		t.Errorf("reconstructed text mismatch:\n got %q\nwant %q", b.String(), text)
	}
}

func TestSplit_EmptyText(t *testing.T) {
	if chunks := Split("", 100, 10, "s"); chunks != nil {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
}

func TestSplit_TextSmallerThanChunk(t *testing.T) {
	chunks := Split("short", 100, 10, "s")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "short" {
		t.Errorf("expected chunk %q, got %q", "short", chunks[0].Content)
	}
}

func TestSplit_OverlapAtLeastChunkSize(t *testing.T) {
	// Degenerate overlap must not loop forever; windows fall back to
	// non-overlapping steps.
	text := strings.Repeat("x", 250)
	chunks := Split(text, 100, 100, "s")

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	total := 0
	for _, c := range chunks {
		total += len(c.Content)
	}
	if total != 250 {
		t.Errorf("expected 250 chars total, got %d", total)
	}
}

func TestChunkDocument_SkipsEmptySectionsAndNamesUnnamed(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sections := []document.Section{
		{Name: "intro", Content: strings.Repeat("a", 50)},
		{Name: "blank", Content: "   \n\t"},
		{Name: "", Content: strings.Repeat("b", 50)},
	}

	c := New(30, 5)
	chunks := c.ChunkDocument("doc.json", sections, log)

	for _, ch := range chunks {
		if ch.SectionName == "blank" {
			t.Error("expected whitespace-only section to be skipped")
		}
	}

	var names []string
	seen := map[string]bool{}
	for _, ch := range chunks {
		if !seen[ch.SectionName] {
			seen[ch.SectionName] = true
			names = append(names, ch.SectionName)
		}
	}
	if len(names) != 2 || names[0] != "intro" || names[1] != "section_3" {
		t.Errorf("expected sections [intro section_3], got %v", names)
	}

	// Indices restart per section.
	lastIndex := map[string]int{}
	for _, ch := range chunks {
		if prev, ok := lastIndex[ch.SectionName]; ok && ch.Index != prev+1 {
			t.Errorf("section %q: non-sequential index %d after %d", ch.SectionName, ch.Index, prev)
		} else if !ok && ch.Index != 0 {
			t.Errorf("section %q: expected first index 0, got %d", ch.SectionName, ch.Index)
		}
		lastIndex[ch.SectionName] = ch.Index
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("expected 0 tokens for empty text, got %d", got)
	}
	if got := EstimateTokens(strings.Repeat("x", 350)); got != 100 {
		t.Errorf("expected 100 tokens for 350 chars, got %d", got)
	}
}
