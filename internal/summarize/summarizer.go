package summarize

import (
	"context"
	"log/slog"
	"strings"
)

// LLMSummarizer resolves a prompt template for a (mode, filing type) pair,
// fills it with context fields, and calls the model. It performs no
// retries; the pipeline owns retry policy.
type LLMSummarizer struct {
	client  *Client
	prompts *PromptSet
	log     *slog.Logger
}

func NewLLMSummarizer(client *Client, prompts *PromptSet, log *slog.Logger) *LLMSummarizer {
	return &LLMSummarizer{client: client, prompts: prompts, log: log}
}

// Model returns the underlying model identifier.
func (s *LLMSummarizer) Model() string {
	return s.client.Model()
}

// Summarize generates one summary. The fields map carries the content
// under "content" plus mode-specific context (title, section_title,
// document_title, theme, current_date, ...), passed through verbatim to
// the template.
func (s *LLMSummarizer) Summarize(ctx context.Context, mode Mode, filingType string, fields map[string]string) (string, error) {
	tmpl, err := s.prompts.Resolve(mode, filingType)
	if err != nil {
		return "", err
	}

	for _, v := range tmpl.Vars() {
		if _, ok := fields[v]; !ok {
			s.log.Warn("prompt variable not provided", "mode", mode, "filing_type", filingType, "var", v)
		}
	}

	prompt := tmpl.Fill(fields)
	s.log.Debug("calling llm",
		"mode", mode,
		"filing_type", filingType,
		"prompt_chars", len(prompt),
	)

	text, err := s.client.Complete(ctx, prompt, 0)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
