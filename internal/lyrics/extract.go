package lyrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSelector matches the lyric containers of common chord sheet sites.
const DefaultSelector = `pre, [data-lyrics-container], .lyrics`

// ErrNoLyrics is returned when a page has no element matching the selector.
var ErrNoLyrics = errors.New("no lyrics element found")

var blankRuns = regexp.MustCompile(`\n{3,}`)

// ExtractHTML returns the text of every element matching selector, with <br> turned into newlines.
//
// Trailing spaces are stripped and runs of blank lines collapse to one.
func ExtractHTML(r io.Reader, selector string) (string, error) {
	if selector == "" {
		selector = DefaultSelector
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoLyrics, selector)
	}

	selection.Find("br").ReplaceWithHtml("\n")

	var blocks []string
	selection.Each(func(_ int, s *goquery.Selection) {
		if text := cleanText(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		return "", fmt.Errorf("%w: matching elements are empty", ErrNoLyrics)
	}

	return strings.Join(blocks, "\n\n"), nil
}

// FetchHTML downloads url and extracts its lyrics with [ExtractHTML].
func FetchHTML(ctx context.Context, client *http.Client, url, selector string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "songsheet/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch page: status %d", resp.StatusCode)
	}

	return ExtractHTML(resp.Body, selector)
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\u00a0")
	}
	return strings.TrimSpace(blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
