package document

import (
	"io"
	"mime/quotedprintable"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	qpHexRe        = regexp.MustCompile(`=[0-9A-Fa-f]{2}`)
	nonPrintableRe = regexp.MustCompile(`[^ -~\n]+`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// looksEncoded reports whether content appears to carry HTML markup or
// quoted-printable encoding and should be normalized before use.
func looksEncoded(s string) bool {
	if strings.Contains(s, "<") && strings.Contains(s, ">") {
		return true
	}
	return strings.Contains(s, "=\n") || strings.Contains(s, "=\r\n") || qpHexRe.MatchString(s)
}

// NormalizeContent strips markup from article content when it appears to
// be HTML or quoted-printable encoded, and passes plain text through
// untouched.
func NormalizeContent(s string) string {
	if looksEncoded(s) {
		return StripHTML(s)
	}
	return s
}

// StripHTML normalizes article content: decodes quoted-printable text,
// removes HTML tags (dropping script/style subtrees entirely), resolves
// entities, drops non-printable characters, and collapses whitespace.
// Plain text passes through with only whitespace normalization.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	if strings.Contains(s, "=\n") || strings.Contains(s, "=\r\n") || qpHexRe.MatchString(s) {
		if decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(s))); err == nil {
			s = string(decoded)
		}
		// On decode failure the original text is kept for tag stripping.
	}

	// Collapse whitespace before dropping non-printables: tabs and other
	// control whitespace must become separators, not vanish and glue
	// adjacent words together.
	text := extractText(s)
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = nonPrintableRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// extractText walks the parsed HTML and collects text nodes. html.Parse
// accepts arbitrary input, so plain text survives unchanged and entities
// come back decoded.
func extractText(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String()
}
