package document

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"
)

// Kind classifies a document's shape. It is determined once per file and
// reused by section extraction and metadata generation.
type Kind int

const (
	KindGeneric Kind = iota
	KindNews
	KindFiling
)

func (k Kind) String() string {
	switch k {
	case KindNews:
		return "news"
	case KindFiling:
		return "filing"
	}
	return "generic"
}

// Section is a named, ordered sub-portion of a document's text content.
// Name may be empty for unnamed sections.
type Section struct {
	Name    string
	Content string
}

// Classify tags a file as a news article or a filing based on its path.
// A file is news if any path segment equals "news".
func Classify(path string) Kind {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.EqualFold(seg, "news") {
			return KindNews
		}
	}
	return KindFiling
}

var formTypeRe = regexp.MustCompile(`^[A-Z0-9\-]+$`)

// FilingType derives a document-category tag used for prompt selection.
// It tries the filename prefix (e.g. "6-K_report.json" -> "6-K"), then a
// form_type/type field in the parsed JSON, then "default".
func FilingType(path string, data any) string {
	base := filepath.Base(path)
	if idx := strings.Index(base, "_"); idx > 0 {
		prefix := base[:idx]
		if len(prefix) < 10 && formTypeRe.MatchString(prefix) {
			return prefix
		}
	}

	if m, ok := data.(map[string]any); ok {
		for _, key := range []string{"form_type", "type"} {
			if v, ok := m[key].(string); ok && v != "" && len(v) < 15 {
				return strings.ToUpper(v)
			}
		}
	}

	return "default"
}

// FullText converts parsed JSON data into a single string for
// summarization. Strings pass through untouched; everything else is
// stringified as indented JSON.
func FullText(data any) string {
	if s, ok := data.(string); ok {
		return s
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}
