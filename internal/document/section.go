package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractSections produces the ordered sections of a parsed JSON document.
// Rules are tried in priority order; the first rule that yields sections
// wins. Candidates shorter than minLength are dropped.
//
//  1. Object with a string "content" field: that field is the content
//     (news-article shape). Single section, named by "title" if present.
//  2. Object with a "sections" mapping: one section per entry, in the
//     order the keys appear in the raw JSON.
//  3. Array: each element contributes a (title, content) pair by
//     best-effort key lookup.
//  4. Generic object: "key: value" lines joined into one synthetic
//     section named by the title field.
//  5. Fallback: the whole document stringified as one section.
func ExtractSections(raw []byte, minLength int) []Section {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}

	switch v := value.(type) {
	case map[string]any:
		return extractFromObject(raw, v, minLength)
	case []any:
		return extractFromArray(v, minLength)
	default:
		content := FullText(v)
		if len(content) >= minLength {
			return []Section{{Content: content}}
		}
		return nil
	}
}

func extractFromObject(raw []byte, data map[string]any, minLength int) []Section {
	// Rule 1: root-level content field (news articles). This rule is
	// terminal: a too-short content field yields zero sections rather
	// than falling through to weaker rules.
	if content, ok := data["content"].(string); ok {
		content = NormalizeContent(content)
		if len(content) < minLength {
			return nil
		}
		title, _ := data["title"].(string)
		return []Section{{Name: title, Content: content}}
	}

	// Rule 2: explicit sections mapping, in raw JSON key order.
	if _, ok := data["sections"].(map[string]any); ok {
		if sections := extractSectionsMap(raw, minLength); len(sections) > 0 {
			return sections
		}
	}

	// Rule 4: flatten a generic object into "key: value" lines.
	if sections := extractFlatObject(raw, data, minLength); len(sections) > 0 {
		return sections
	}

	// Rule 5: ultimate fallback, stringify everything.
	content, err := json.Marshal(data)
	if err == nil && len(content) >= minLength {
		name, _ := data["title"].(string)
		if name == "" {
			name = "full_document_content"
		}
		return []Section{{Name: name, Content: string(content)}}
	}
	return nil
}

func extractSectionsMap(raw []byte, minLength int) []Section {
	sectionsRaw, ok := objectField(raw, "sections")
	if !ok {
		return nil
	}
	fields, err := orderedFields(sectionsRaw)
	if err != nil {
		return nil
	}

	var sections []Section
	for _, f := range fields {
		var content string
		var str string
		if json.Unmarshal(f.value, &str) == nil {
			content = str
		} else {
			var items []any
			if json.Unmarshal(f.value, &items) != nil {
				continue
			}
			var parts []string
			for _, item := range items {
				if s, ok := item.(string); ok {
					parts = append(parts, s)
				}
			}
			content = strings.Join(parts, "\n")
		}
		if len(content) >= minLength {
			sections = append(sections, Section{Name: f.key, Content: content})
		}
	}
	return sections
}

func extractFromArray(items []any, minLength int) []Section {
	var sections []Section
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["title"].(string)
		if name == "" {
			name, _ = m["header"].(string)
		}
		if name == "" {
			name = fmt.Sprintf("item_%d", i+1)
		}

		content, _ := m["content"].(string)
		if content == "" {
			content, _ = m["text"].(string)
		}
		if content == "" {
			if b, err := json.Marshal(m); err == nil {
				content = string(b)
			}
		}

		if len(content) >= minLength {
			sections = append(sections, Section{Name: name, Content: content})
		}
	}
	return sections
}

func extractFlatObject(raw []byte, data map[string]any, minLength int) []Section {
	title, hasTitle := data["title"].(string)

	// A document holding nothing but a title may treat the title itself
	// as the content, subject to the length filter.
	if hasTitle && len(data) == 1 {
		if len(title) >= minLength {
			return []Section{{Content: title}}
		}
		return nil
	}

	fields, err := orderedFields(raw)
	if err != nil {
		return nil
	}

	var b strings.Builder
	for _, f := range fields {
		if hasTitle && f.key == "title" {
			continue
		}
		var str string
		if json.Unmarshal(f.value, &str) == nil {
			fmt.Fprintf(&b, "%s: %s\n", f.key, str)
		} else {
			fmt.Fprintf(&b, "%s: %s\n", f.key, string(f.value))
		}
	}

	content := strings.TrimSpace(b.String())
	if content == "" || len(content) < minLength {
		return nil
	}
	name := title
	if name == "" {
		name = "document_content"
	}
	return []Section{{Name: name, Content: content}}
}

type jsonField struct {
	key   string
	value json.RawMessage
}

// orderedFields scans a raw JSON object and returns its fields in
// document order. encoding/json maps lose ordering, and section order is
// significant here.
func orderedFields(raw []byte) ([]jsonField, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object")
	}

	var fields []jsonField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key")
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, jsonField{key: key, value: value})
	}
	return fields, nil
}

// objectField returns the raw bytes of one top-level field.
func objectField(raw []byte, name string) (json.RawMessage, bool) {
	fields, err := orderedFields(raw)
	if err != nil {
		return nil, false
	}
	for _, f := range fields {
		if f.key == name {
			return f.value, true
		}
	}
	return nil, false
}
