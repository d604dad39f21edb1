package sites

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"golang.org/x/text/unicode/norm"
)

const summaryLength = 200

// normalizeText trims and NFC-normalizes extracted text. Ukrainian and other
// non-ASCII sources mix composed and decomposed forms.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// summarize produces a fallback summary from the first 200 runes of content.
func summarize(content string) string {
	runes := []rune(content)
	if len(runes) > summaryLength {
		return string(runes[:summaryLength]) + "..."
	}
	return content
}

// extractText returns the normalized text of the first element matching the
// selector, or "" when the selector is empty or matches nothing.
func extractText(doc *goquery.Document, selector string) string {
	if selector == "" {
		return ""
	}
	return normalizeText(doc.Find(selector).First().Text())
}

// extractAttr returns an attribute of the first element matching the selector.
func extractAttr(doc *goquery.Document, selector, attribute string) string {
	if selector == "" {
		return ""
	}
	val, _ := doc.Find(selector).First().Attr(attribute)
	return strings.TrimSpace(val)
}

// joinParagraphs concatenates the non-empty <p> texts under the selection.
func joinParagraphs(sel *goquery.Selection) string {
	var paragraphs []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := normalizeText(p.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}

// parseDate parses a source-supplied date string in whatever format the site
// uses. Returns nil when the value is empty or unrecognizable; an ambiguous
// date is not worth failing an article over.
func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// absoluteURL resolves href against base.
func absoluteURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// isValidURL reports whether raw is an absolute http(s) URL.
func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// uniqueURLs removes duplicates while preserving discovery order.
func uniqueURLs(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	result := make([]string, 0, len(urls))
	for _, u := range urls {
		if !seen[u] {
			seen[u] = true
			result = append(result, u)
		}
	}
	return result
}

// capURLs applies a source's max_articles setting. Zero means no cap.
func capURLs(urls []string, max int) []string {
	if max > 0 && len(urls) > max {
		return urls[:max]
	}
	return urls
}
