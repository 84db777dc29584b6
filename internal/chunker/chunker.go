package chunker

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/docsum/internal/document"
)

// Chunk is a bounded-size slice of a section's text, possibly overlapping
// its neighbor. Index is 0-based and increases by one per chunk within a
// section.
type Chunk struct {
	Content     string
	SectionName string
	Index       int
}

// Chunker splits section text into overlapping character windows.
type Chunker struct {
	MaxChunkSize int // window width in characters
	Overlap      int // characters shared with the previous window
}

func New(maxChunkSize, overlap int) *Chunker {
	if maxChunkSize <= 0 {
		maxChunkSize = 2000
	}
	if overlap < 0 {
		overlap = 0
	}
	return &Chunker{MaxChunkSize: maxChunkSize, Overlap: overlap}
}

// ChunkText splits text using the chunker's configured window.
func (c *Chunker) ChunkText(text, sectionName string) []Chunk {
	return Split(text, c.MaxChunkSize, c.Overlap, sectionName)
}

// Split advances a window of width maxSize over text with step
// maxSize-overlap and emits each window as one chunk. When overlap >=
// maxSize the windows fall back to non-overlapping steps so the loop
// always terminates. Empty text yields zero chunks.
//
// Invariant: every byte of text is covered by at least one chunk, and the
// non-overlapping spans of consecutive chunks reconstruct text exactly.
func Split(text string, maxSize, overlap int, sectionName string) []Chunk {
	if text == "" {
		return nil
	}
	if maxSize <= 0 {
		maxSize = 2000
	}
	step := maxSize - overlap
	if step <= 0 {
		step = maxSize
	}

	var chunks []Chunk
	for start, index := 0, 0; start < len(text); start, index = start+step, index+1 {
		end := start + maxSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, Chunk{
			Content:     text[start:end],
			SectionName: sectionName,
			Index:       index,
		})
		if end == len(text) {
			break
		}
	}
	return chunks
}

// ChunkDocument chunks every section of a document in order. Sections with
// empty or whitespace-only content are skipped with a warning. Chunk
// indices restart at 0 for each section; every chunk carries its section's
// name (or a generated section_<n> identifier for unnamed sections).
func (c *Chunker) ChunkDocument(filePath string, sections []document.Section, log *slog.Logger) []Chunk {
	var all []Chunk
	for i, sec := range sections {
		name := sec.Name
		if name == "" {
			name = fmt.Sprintf("section_%d", i+1)
		}
		if strings.TrimSpace(sec.Content) == "" {
			log.Warn("skipping empty section", "file", filePath, "section", name)
			continue
		}
		all = append(all, c.ChunkText(sec.Content, name)...)
	}
	return all
}
