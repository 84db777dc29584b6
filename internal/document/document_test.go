package document

import (
	"path/filepath"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Kind
	}{
		{filepath.Join("data", "news", "2024-03", "article.json"), KindNews},
		{filepath.Join("data", "News", "2024-03", "article.json"), KindNews},
		{filepath.Join("data", "filings", "6-K_report.json"), KindFiling},
		{filepath.Join("newsletter", "a.json"), KindFiling}, // segment must equal "news"
	}
	for _, c := range cases {
		if got := Classify(c.path); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestFilingType_FromFilenamePrefix(t *testing.T) {
	if got := FilingType("filings/6-K_2024_report.json", nil); got != "6-K" {
		t.Errorf("expected 6-K, got %q", got)
	}
	if got := FilingType("filings/10-Q_q3.json", map[string]any{}); got != "10-Q" {
		t.Errorf("expected 10-Q, got %q", got)
	}
}

func TestFilingType_PrefixRules(t *testing.T) {
	// Lowercase prefixes and overlong prefixes do not qualify.
	if got := FilingType("filings/quarterly_report.json", map[string]any{}); got != "default" {
		t.Errorf("expected default for lowercase prefix, got %q", got)
	}
	if got := FilingType("filings/VERYLONGPREFIX_x.json", map[string]any{}); got != "default" {
		t.Errorf("expected default for overlong prefix, got %q", got)
	}
}

func TestFilingType_FromDataField(t *testing.T) {
	data := map[string]any{"form_type": "8-k"}
	if got := FilingType("filings/report.json", data); got != "8-K" {
		t.Errorf("expected uppercased form_type, got %q", got)
	}

	data = map[string]any{"type": "annual"}
	if got := FilingType("filings/report.json", data); got != "ANNUAL" {
		t.Errorf("expected uppercased type field, got %q", got)
	}
}

func TestFilingType_Default(t *testing.T) {
	if got := FilingType("filings/report.json", map[string]any{"other": 1}); got != "default" {
		t.Errorf("expected default, got %q", got)
	}
}

func TestFullText(t *testing.T) {
	if got := FullText("raw string"); got != "raw string" {
		t.Errorf("expected string passthrough, got %q", got)
	}

	got := FullText(map[string]any{"a": 1})
	if got != "{\n  \"a\": 1\n}" {
		t.Errorf("expected indented JSON, got %q", got)
	}
}
