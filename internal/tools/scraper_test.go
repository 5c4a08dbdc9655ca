package tools

import (
	"strings"
	"testing"

	"github.com/go-shiori/go-readability"
)

func TestFormatCitation(t *testing.T) {
	article := readability.Article{
		Title:       "Remote Work Study",
		SiteName:    "Example Journal",
		Excerpt:     "A two-year study of remote teams.",
		TextContent: "Productivity held steady <script>alert(1)</script> across the cohort.",
	}

	out := formatCitation("https://example.com/study", article)

	if !strings.HasPrefix(out, "SOURCE: https://example.com/study\n") {
		t.Errorf("citation must lead with the source URL, got %q", out)
	}
	for _, want := range []string{
		"TITLE: Remote Work Study",
		"SITE: Example Journal",
		"EXCERPT: A two-year study of remote teams.",
		"-- CONTENT --",
		"Productivity held steady",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("citation missing %q", want)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Error("body must be sanitized before reaching a prompt")
	}
}

func TestFormatCitation_OmitsEmptyFields(t *testing.T) {
	out := formatCitation("https://example.com", readability.Article{
		Title:       "Bare Page",
		TextContent: "text",
	})
	if strings.Contains(out, "SITE:") || strings.Contains(out, "EXCERPT:") {
		t.Errorf("empty fields must be omitted, got %q", out)
	}
}

func TestFormatCitation_TruncatesLongBody(t *testing.T) {
	article := readability.Article{
		Title:       "Long Page",
		TextContent: strings.Repeat("a", maxArticleChars+100),
	}
	out := formatCitation("https://example.com", article)
	if !strings.Contains(out, "(content truncated)") {
		t.Error("long bodies must be truncated")
	}
	if len(out) > maxArticleChars+200 {
		t.Errorf("output too long: %d chars", len(out))
	}
}
