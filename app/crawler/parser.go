package crawler

import (
	"context"
	"time"

	"github.com/skovalov/news-crawler/app/config"
)

// ParsedArticle holds the structured fields extracted from one article page.
// Title is the only required field.
type ParsedArticle struct {
	Title         string
	Content       string
	Summary       string
	Author        string
	PublishedDate *time.Time
}

// SiteParser is the capability implemented once per site. The crawl manager
// stays ignorant of any site's HTML structure; all I/O goes through the fetch
// session passed in, so retry, backoff and rate limiting are inherited rather
// than reimplemented per site.
//
// ListArticleURLs enumerates candidate article URLs for the period from the
// source's index or archive pages. Zero results is an empty slice, not an
// error.
//
// ParseArticle extracts the structured fields for one URL. A (nil, nil)
// return means "not an article" (an index or navigation page matched by
// mistake); errors are reserved for I/O failures (*FetchError) and
// unrecoverable page structure problems (*ParseError).
type SiteParser interface {
	ListArticleURLs(ctx context.Context, session *Session, period Period) ([]string, error)
	ParseArticle(ctx context.Context, session *Session, url string) (*ParsedArticle, error)
}

// Factory builds a parser instance for one source from its configuration.
type Factory func(cfg *config.SourceConfig) (SiteParser, error)
