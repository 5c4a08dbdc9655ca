package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

type ScraperTool struct {
	UserAgent string
}

func NewScraperTool() *ScraperTool {
	return &ScraperTool{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	}
}

func (s *ScraperTool) Name() string {
	return "scraper"
}

func (s *ScraperTool) Description() string {
	return "Fetch a webpage URL and extract the main article content as clean, sanitized text. Best for citing sources found via search."
}

func (s *ScraperTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "The full URL of the webpage to scrape (e.g., https://example.com/article)",
			},
		},
		"required": []string{"url"},
	}
}

func (s *ScraperTool) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return "", fmt.Errorf("invalid input: %v", err)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", args.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status code %d", resp.StatusCode)
	}

	parsedURL, err := url.Parse(args.URL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %v", err)
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse article: %v", err)
	}

	return formatCitation(args.URL, article), nil
}

// maxArticleChars caps how much of one source reaches a turn prompt, so a
// single long page cannot crowd out the blackboard over several rounds.
const maxArticleChars = 20000

// formatCitation renders an article as a source block the debate roles can
// quote and attribute: source line first, then the sanitized body text.
func formatCitation(pageURL string, article readability.Article) string {
	// Strip any remaining HTML tags or scripts before the text reaches
	// a model prompt.
	body := bluemonday.StrictPolicy().Sanitize(article.TextContent)
	if len(body) > maxArticleChars {
		body = body[:maxArticleChars] + "\n... (content truncated) ..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SOURCE: %s\n", pageURL)
	fmt.Fprintf(&b, "TITLE: %s\n", article.Title)
	if article.SiteName != "" {
		fmt.Fprintf(&b, "SITE: %s\n", article.SiteName)
	}
	if article.Excerpt != "" {
		fmt.Fprintf(&b, "EXCERPT: %s\n", article.Excerpt)
	}
	b.WriteString("\n-- CONTENT --\n")
	b.WriteString(body)
	return b.String()
}
