// Package headfetch back-fills the head markup of records created without
// one by fetching the default fallback URL and extracting its <head>.
package headfetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Fetcher retrieves and extracts head markup.
type Fetcher struct {
	client *http.Client
}

// New creates a fetcher. A nil client gets a default with a bounded
// timeout.
func New(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	return &Fetcher{client: client}
}

// FetchHead downloads pageURL and returns the serialized <head> element,
// or an empty string when the page has none.
func (f *Fetcher) FetchHead(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build head fetch request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", pageURL, err)
	}

	return ExtractHead(doc)
}

// ExtractHead serializes the first <head> element of a parsed document.
func ExtractHead(doc *html.Node) (string, error) {
	head := findHead(doc)
	if head == nil {
		return "", nil
	}

	var sb strings.Builder
	if err := html.Render(&sb, head); err != nil {
		return "", fmt.Errorf("render head: %w", err)
	}

	return sb.String(), nil
}

func findHead(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "head" {
		return n
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findHead(c); found != nil {
			return found
		}
	}

	return nil
}
