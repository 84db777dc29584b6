package metadata

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Params carries the context for one summary's metadata.
type Params struct {
	SummaryText string
	SourceRef   string // original file reference, relative, forward slashes
	Mode        string // file, node, master, cross
	DocType     string // filing type tag, or "news"

	ParentID       string
	SectionID      string
	SectionTitle   string
	ThemeType      string
	Model          string
	ChunkingMethod string

	Extra map[string]any // free-form context fields, merged as-is
}

// Generator produces the metadata document written next to each summary.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the metadata mapping for a summary artifact.
func (g *Generator) Generate(p Params) map[string]any {
	category := "General"
	switch {
	case strings.EqualFold(p.DocType, "news"):
		category = "News"
	case p.DocType != "" && !strings.EqualFold(p.DocType, "default") && !strings.EqualFold(p.DocType, "unknown"):
		category = "SEC Filings"
	}

	meta := map[string]any{
		"summary_id":          newULID(),
		"file_id":             p.SourceRef,
		"category":            category,
		"doc_type":            p.DocType,
		"summary_type":        p.Mode,
		"generated_timestamp": time.Now().UTC().Format(time.RFC3339),
		"word_count":          len(strings.Fields(p.SummaryText)),
		"character_count":     len(p.SummaryText),
		"key_terms":           KeyTerms(p.SummaryText, 10),
		"llm_model_used":      p.Model,
	}

	if p.ParentID != "" {
		meta["parent_id"] = p.ParentID
	}
	if p.SectionID != "" {
		meta["section_id"] = p.SectionID
	}
	if p.SectionTitle != "" {
		meta["section_title"] = p.SectionTitle
	}
	if p.ThemeType != "" {
		meta["theme_type"] = p.ThemeType
	}
	if p.ChunkingMethod != "" {
		meta["chunking_method"] = p.ChunkingMethod
	}
	for k, v := range p.Extra {
		if _, exists := meta[k]; !exists {
			meta[k] = v
		}
	}

	return meta
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "should": true, "can": true, "could": true,
	"may": true, "might": true, "must": true, "and": true, "but": true,
	"or": true, "nor": true, "for": true, "so": true, "yet": true,
	"in": true, "on": true, "at": true, "by": true, "from": true, "to": true,
	"with": true, "about": true, "above": true, "below": true, "of": true,
	"not": true, "this": true, "that": true, "these": true, "those": true,
	"it": true, "its": true, "we": true, "they": true, "them": true,
	"their": true, "our": true, "also": true, "as": true, "if": true,
	"then": true, "than": true, "such": true, "other": true, "which": true,
	"what": true, "when": true, "where": true, "who": true, "whom": true,
	"why": true, "how": true, "all": true, "any": true, "both": true,
	"each": true, "few": true, "more": true, "most": true, "no": true,
	"some": true, "many": true,
}

var wordRe = regexp.MustCompile(`[a-zA-Z0-9_]+`)

// KeyTerms picks the top-n most frequent non-stopword tokens (longer than
// two characters). Ties break alphabetically for determinism.
func KeyTerms(text string, n int) []string {
	if text == "" {
		return []string{}
	}

	counts := map[string]int{}
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) <= 2 || stopWords[w] {
			continue
		}
		counts[w]++
	}

	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}
