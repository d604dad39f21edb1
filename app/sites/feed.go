package sites

import (
	"bytes"
	"context"
	"net/url"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"

	"github.com/skovalov/news-crawler/app/config"
	"github.com/skovalov/news-crawler/app/crawler"
)

var _ crawler.SiteParser = (*FeedParser)(nil)

// FeedParser discovers article URLs from a source's RSS/Atom feed and
// extracts article content with readability. Feed-supplied metadata (title,
// author, published date) is remembered from the listing pass so parsing a
// page does not lose it.
type FeedParser struct {
	cfg    *config.SourceConfig
	parser *gofeed.Parser

	mu    sync.Mutex
	items map[string]*gofeed.Item
}

func NewFeedParser(cfg *config.SourceConfig) (crawler.SiteParser, error) {
	return &FeedParser{
		cfg:    cfg,
		parser: gofeed.NewParser(),
		items:  make(map[string]*gofeed.Item),
	}, nil
}

func (p *FeedParser) ListArticleURLs(ctx context.Context, session *crawler.Session, period crawler.Period) ([]string, error) {
	data, err := session.Fetch(ctx, p.cfg.FeedURL)
	if err != nil {
		return nil, err
	}

	feed, err := p.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &crawler.ParseError{URL: p.cfg.FeedURL, Reason: "invalid feed", Err: err}
	}

	var urls []string
	for _, item := range feed.Items {
		if item == nil || item.Link == "" || !isValidURL(item.Link) {
			continue
		}
		if !p.inPeriod(item, period) {
			continue
		}

		p.mu.Lock()
		p.items[item.Link] = item
		p.mu.Unlock()

		urls = append(urls, item.Link)
	}

	return capURLs(uniqueURLs(urls), p.cfg.Settings.MaxArticles), nil
}

// inPeriod filters feed items by published date when the period carries a
// date range. Items without a parsed date are kept; dropping them would lose
// articles over a missing timestamp.
func (p *FeedParser) inPeriod(item *gofeed.Item, period crawler.Period) bool {
	if period.Start.IsZero() && period.End.IsZero() {
		return true
	}
	if item.PublishedParsed == nil {
		return true
	}

	published := item.PublishedParsed.UTC()
	if !period.Start.IsZero() && published.Before(period.Start.Truncate(24*time.Hour)) {
		return false
	}
	if !period.End.IsZero() && !published.Before(period.End.Truncate(24*time.Hour).AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func (p *FeedParser) ParseArticle(ctx context.Context, session *crawler.Session, articleURL string) (*crawler.ParsedArticle, error) {
	html, err := session.Fetch(ctx, articleURL)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	item := p.items[articleURL]
	p.mu.Unlock()

	pageURL, _ := url.Parse(articleURL)
	readable, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err != nil {
		return nil, &crawler.ParseError{URL: articleURL, Reason: "readability extraction failed", Err: err}
	}

	article := &crawler.ParsedArticle{
		Title:   normalizeText(readable.Title),
		Content: normalizeText(readable.TextContent),
		Author:  normalizeText(readable.Byline),
	}

	if item != nil {
		if article.Title == "" {
			article.Title = normalizeText(item.Title)
		}
		if article.Author == "" && item.Author != nil {
			article.Author = normalizeText(item.Author.Name)
		}
		if item.PublishedParsed != nil {
			published := item.PublishedParsed.UTC()
			article.PublishedDate = &published
		}
		if item.Description != "" {
			article.Summary = normalizeText(item.Description)
		}
	}

	if article.Title == "" {
		return nil, nil
	}
	if article.Summary == "" {
		article.Summary = summarize(article.Content)
	}

	return article, nil
}
