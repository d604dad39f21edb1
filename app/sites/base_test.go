package sites

import (
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func TestSummarize(t *testing.T) {
	short := "Короткий текст."
	if got := summarize(short); got != short {
		t.Errorf("Expected short content unchanged, got '%s'", got)
	}

	long := strings.Repeat("абв", 100)
	got := summarize(long)
	runes := []rune(got)
	if len(runes) != summaryLength+3 {
		t.Errorf("Expected %d runes with ellipsis, got %d", summaryLength+3, len(runes))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected summary to end with ellipsis, got '%s'", got)
	}
	// Truncation must respect rune boundaries for Cyrillic text
	if !strings.HasPrefix(long, strings.TrimSuffix(got, "...")) {
		t.Error("Expected summary to be a prefix of the content")
	}
}

func TestNormalizeText(t *testing.T) {
	// Decomposed и + combining breve composes to й under NFC
	decomposed := "  нови\u0438\u0306  "
	if got := normalizeText(decomposed); got != "новий" {
		t.Errorf("Expected NFC-composed 'новий', got '%s'", got)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *time.Time
	}{
		{"empty", "", nil},
		{"garbage", "not a date at all", nil},
		{"iso", "2026-03-15T10:30:00Z", timePtr(time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC))},
		{"date only", "2026-03-15", timePtr(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDate(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("Expected nil, got %v", got)
			case tt.want != nil && (got == nil || !got.Equal(*tt.want)):
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestAbsoluteURL(t *testing.T) {
	base, _ := url.Parse("https://example.com/news/")

	if got := absoluteURL(base, "/article-1"); got != "https://example.com/article-1" {
		t.Errorf("Expected rooted path resolution, got '%s'", got)
	}
	if got := absoluteURL(base, "https://other.example.com/a"); got != "https://other.example.com/a" {
		t.Errorf("Expected absolute href unchanged, got '%s'", got)
	}
}

func TestIsValidURL(t *testing.T) {
	valid := []string{"https://example.com/a", "http://example.com"}
	for _, u := range valid {
		if !isValidURL(u) {
			t.Errorf("Expected '%s' to be valid", u)
		}
	}

	invalid := []string{"/relative", "ftp://example.com/a", "javascript:void(0)", ""}
	for _, u := range invalid {
		if isValidURL(u) {
			t.Errorf("Expected '%s' to be invalid", u)
		}
	}
}

func TestUniqueURLsPreservesOrder(t *testing.T) {
	input := []string{"a", "b", "a", "c", "b"}
	expected := []string{"a", "b", "c"}
	if got := uniqueURLs(input); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestCapURLs(t *testing.T) {
	urls := []string{"a", "b", "c"}

	if got := capURLs(urls, 2); len(got) != 2 {
		t.Errorf("Expected cap of 2, got %d", len(got))
	}
	if got := capURLs(urls, 0); len(got) != 3 {
		t.Errorf("Expected zero cap to mean no cap, got %d", len(got))
	}
	if got := capURLs(urls, 10); len(got) != 3 {
		t.Errorf("Expected cap above length to be a no-op, got %d", len(got))
	}
}

func TestJoinParagraphs(t *testing.T) {
	html := `<div class="body"><p>Перший абзац.</p><p>  </p><p>Другий абзац.</p></div>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Failed to parse HTML: %v", err)
	}

	got := joinParagraphs(doc.Find("div.body").First())
	expected := "Перший абзац.\n\nДругий абзац."
	if got != expected {
		t.Errorf("Expected '%s', got '%s'", expected, got)
	}
}
