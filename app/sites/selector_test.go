package sites

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/skovalov/news-crawler/app/config"
	"github.com/skovalov/news-crawler/app/crawler"
)

func newTestFetchSession() *crawler.Session {
	return crawler.NewSession(crawler.SessionOptions{
		UserAgent:    "test-crawler/1.0",
		RequestDelay: time.Millisecond,
		Timeout:      5 * time.Second,
		MaxRetries:   1,
		Backoff:      time.Millisecond,
	})
}

const selectorIndexPage = `<html><body>
<a class="headline" href="/news/1">First</a>
<a class="headline" href="/news/2">Second</a>
<a class="headline" href="/news/1">First again</a>
<a class="other" href="/about">About</a>
</body></html>`

const selectorArticlePage = `<html><body>
<h1 class="title">Важлива новина</h1>
<div class="content">Повний текст новини про подію.</div>
<span class="author">Іван Петренко</span>
<time datetime="2026-03-15T10:30:00Z">15 березня 2026</time>
</body></html>`

func newSelectorTestServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(selectorIndexPage))
	})
	mux.HandleFunc("/news/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(selectorArticlePage))
	})
	mux.HandleFunc("/no-title", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="content">Nav page</div></body></html>`))
	})
	return httptest.NewServer(mux)
}

func selectorTestConfig(serverURL string) *config.SourceConfig {
	return &config.SourceConfig{
		Name:        "test-source",
		DisplayName: "Test Source",
		URL:         serverURL,
		Parser:      "selector",
		Selectors: config.Selectors{
			ArticleLinks:  "a.headline",
			Title:         "h1.title",
			Content:       "div.content",
			Author:        "span.author",
			Date:          "time",
			DateAttribute: "datetime",
		},
	}
}

func TestSelectorParserListArticleURLs(t *testing.T) {
	server := newSelectorTestServer()
	defer server.Close()

	parser, err := NewSelectorParser(selectorTestConfig(server.URL))
	if err != nil {
		t.Fatalf("NewSelectorParser failed: %v", err)
	}

	urls, err := parser.ListArticleURLs(context.Background(), newTestFetchSession(), crawler.Period{})
	if err != nil {
		t.Fatalf("ListArticleURLs failed: %v", err)
	}

	expected := []string{server.URL + "/news/1", server.URL + "/news/2"}
	if len(urls) != len(expected) {
		t.Fatalf("Expected %d URLs, got %d: %v", len(expected), len(urls), urls)
	}
	for i := range expected {
		if urls[i] != expected[i] {
			t.Errorf("Expected URL %s at %d, got %s", expected[i], i, urls[i])
		}
	}
}

func TestSelectorParserMaxArticlesCap(t *testing.T) {
	server := newSelectorTestServer()
	defer server.Close()

	cfg := selectorTestConfig(server.URL)
	cfg.Settings.MaxArticles = 1

	parser, err := NewSelectorParser(cfg)
	if err != nil {
		t.Fatalf("NewSelectorParser failed: %v", err)
	}

	urls, err := parser.ListArticleURLs(context.Background(), newTestFetchSession(), crawler.Period{})
	if err != nil {
		t.Fatalf("ListArticleURLs failed: %v", err)
	}
	if len(urls) != 1 {
		t.Errorf("Expected listing capped at 1 URL, got %d", len(urls))
	}
}

func TestSelectorParserParseArticle(t *testing.T) {
	server := newSelectorTestServer()
	defer server.Close()

	parser, err := NewSelectorParser(selectorTestConfig(server.URL))
	if err != nil {
		t.Fatalf("NewSelectorParser failed: %v", err)
	}

	article, err := parser.ParseArticle(context.Background(), newTestFetchSession(), server.URL+"/news/1")
	if err != nil {
		t.Fatalf("ParseArticle failed: %v", err)
	}
	if article == nil {
		t.Fatal("Expected parsed article, got nil")
	}

	if article.Title != "Важлива новина" {
		t.Errorf("Expected title 'Важлива новина', got '%s'", article.Title)
	}
	if !strings.Contains(article.Content, "Повний текст") {
		t.Errorf("Expected content from selector, got '%s'", article.Content)
	}
	if article.Author != "Іван Петренко" {
		t.Errorf("Expected author 'Іван Петренко', got '%s'", article.Author)
	}

	expectedDate := time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)
	if article.PublishedDate == nil || !article.PublishedDate.Equal(expectedDate) {
		t.Errorf("Expected published date %v, got %v", expectedDate, article.PublishedDate)
	}
	if article.Summary == "" {
		t.Error("Expected summary fallback from content")
	}
}

func TestSelectorParserNotAnArticle(t *testing.T) {
	server := newSelectorTestServer()
	defer server.Close()

	parser, err := NewSelectorParser(selectorTestConfig(server.URL))
	if err != nil {
		t.Fatalf("NewSelectorParser failed: %v", err)
	}

	article, err := parser.ParseArticle(context.Background(), newTestFetchSession(), server.URL+"/no-title")
	if err != nil {
		t.Fatalf("ParseArticle failed: %v", err)
	}
	if article != nil {
		t.Errorf("Expected nil for page without a title, got %+v", article)
	}
}

func TestSelectorParserRejectsInvalidBaseURL(t *testing.T) {
	cfg := selectorTestConfig("not a url")
	if _, err := NewSelectorParser(cfg); err == nil {
		t.Error("Expected error for invalid source URL")
	}
}
