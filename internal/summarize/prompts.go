package summarize

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
)

// ErrNoTemplate is returned when neither a filing-type-specific nor a
// default template exists for a mode. This is a configuration error: the
// call cannot succeed on retry.
var ErrNoTemplate = errors.New("no prompt template")

// missingVarPlaceholder fills template variables the caller did not
// provide, so a thin context degrades the prompt instead of breaking it.
const missingVarPlaceholder = "[Information not provided]"

// Template is a prompt with {name} placeholders.
type Template struct {
	text string
}

var templateVarRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Fill substitutes placeholder variables with the given field values.
func (t *Template) Fill(fields map[string]string) string {
	return templateVarRe.ReplaceAllStringFunc(t.text, func(match string) string {
		name := match[1 : len(match)-1]
		if v, ok := fields[name]; ok {
			return v
		}
		return missingVarPlaceholder
	})
}

// Vars returns the placeholder names appearing in the template.
func (t *Template) Vars() []string {
	var vars []string
	seen := map[string]bool{}
	for _, m := range templateVarRe.FindAllStringSubmatch(t.text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			vars = append(vars, m[1])
		}
	}
	return vars
}

// PromptSet maps filing type and mode to a prompt template. Lookup falls
// back to the "default" filing type when no specific entry exists.
type PromptSet struct {
	templates map[string]map[Mode]*Template
}

// LoadPromptSet reads a prompt-set config file: a JSON object mapping
// filing type to a {mode: template file path} object. Template files are
// plain text with {placeholder} variables. Unreadable template files are
// skipped; lookup then falls through to the default entry.
func LoadPromptSet(path string) (*PromptSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt set: %w", err)
	}

	var config map[string]map[string]string
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse prompt set: %w", err)
	}

	ps := &PromptSet{templates: make(map[string]map[Mode]*Template)}
	for filingType, modes := range config {
		ps.templates[filingType] = make(map[Mode]*Template)
		for mode, templatePath := range modes {
			text, err := os.ReadFile(templatePath)
			if err != nil {
				continue
			}
			ps.templates[filingType][Mode(mode)] = &Template{text: string(text)}
		}
	}
	return ps, nil
}

// DefaultPromptSet returns the built-in templates covering every mode
// under the "default" filing type.
func DefaultPromptSet() *PromptSet {
	return &PromptSet{templates: map[string]map[Mode]*Template{
		"default": {
			ModeFile: &Template{text: "You are an expert financial analyst. Write a concise, accurate " +
				"summary of the following document titled \"{title}\".\n\n{content}\n\n" +
				"Respond with the summary only, in Markdown."},
			ModeNode: &Template{text: "You are an expert financial analyst. Summarize the section " +
				"\"{section_title}\" of the document \"{document_title}\".\n\n{content}\n\n" +
				"Respond with the summary only, in Markdown."},
			ModeMaster: &Template{text: "You are an expert financial analyst. The following are section " +
				"summaries of the document \"{document_title}\". Combine them into one coherent " +
				"master summary.\n\n{content}\n\n" +
				"Respond with the summary only, in Markdown."},
			ModeCross: &Template{text: "You are an expert financial analyst. Summarize the following " +
				"material with respect to the theme \"{theme}\".\n\n{content}\n\n" +
				"Respond with the summary only, in Markdown."},
		},
	}}
}

// Resolve returns the template for a mode and filing type, falling back to
// the default filing type. Returns ErrNoTemplate when neither exists.
func (ps *PromptSet) Resolve(mode Mode, filingType string) (*Template, error) {
	if modes, ok := ps.templates[filingType]; ok {
		if t := modes[mode]; t != nil {
			return t, nil
		}
	}
	if modes, ok := ps.templates["default"]; ok {
		if t := modes[mode]; t != nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w for mode %q (filing type %q)", ErrNoTemplate, mode, filingType)
}
