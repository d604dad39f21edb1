package sites

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/skovalov/news-crawler/app/config"
	"github.com/skovalov/news-crawler/app/crawler"
)

var _ crawler.SiteParser = (*SelectorParser)(nil)

// SelectorParser is the generic configuration-driven parser: article links
// are discovered from the source's index page and fields extracted with the
// CSS selectors from the source's YAML file. Content falls back to
// readability extraction when the content selector yields nothing.
type SelectorParser struct {
	cfg  *config.SourceConfig
	base *url.URL
}

func NewSelectorParser(cfg *config.SourceConfig) (crawler.SiteParser, error) {
	base, err := url.Parse(cfg.URL)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("invalid source URL '%s'", cfg.URL)
	}
	return &SelectorParser{cfg: cfg, base: base}, nil
}

func (p *SelectorParser) ListArticleURLs(ctx context.Context, session *crawler.Session, period crawler.Period) ([]string, error) {
	html, err := session.Fetch(ctx, p.cfg.URL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &crawler.ParseError{URL: p.cfg.URL, Reason: "invalid HTML", Err: err}
	}

	linkSelector := p.cfg.Selectors.ArticleLinks
	if linkSelector == "" {
		linkSelector = "a"
	}

	var urls []string
	doc.Find(linkSelector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		absolute := absoluteURL(p.base, href)
		if isValidURL(absolute) {
			urls = append(urls, absolute)
		}
	})

	return capURLs(uniqueURLs(urls), p.cfg.Settings.MaxArticles), nil
}

func (p *SelectorParser) ParseArticle(ctx context.Context, session *crawler.Session, articleURL string) (*crawler.ParsedArticle, error) {
	html, err := session.Fetch(ctx, articleURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &crawler.ParseError{URL: articleURL, Reason: "invalid HTML", Err: err}
	}

	titleSelector := p.cfg.Selectors.Title
	if titleSelector == "" {
		titleSelector = "h1"
	}
	title := extractText(doc, titleSelector)
	if title == "" {
		// Index or navigation page matched by mistake
		return nil, nil
	}

	contentSelector := p.cfg.Selectors.Content
	if contentSelector == "" {
		contentSelector = "article"
	}
	content := extractText(doc, contentSelector)
	if content == "" {
		content = p.extractReadable(html, articleURL)
	}

	article := &crawler.ParsedArticle{
		Title:   title,
		Content: content,
		Author:  extractText(doc, p.cfg.Selectors.Author),
	}

	if p.cfg.Selectors.Date != "" {
		var raw string
		if p.cfg.Selectors.DateAttribute != "" {
			raw = extractAttr(doc, p.cfg.Selectors.Date, p.cfg.Selectors.DateAttribute)
		} else {
			raw = extractText(doc, p.cfg.Selectors.Date)
		}
		article.PublishedDate = parseDate(raw)
	}

	article.Summary = extractText(doc, p.cfg.Selectors.Summary)
	if article.Summary == "" {
		article.Summary = summarize(content)
	}

	return article, nil
}

func (p *SelectorParser) extractReadable(html []byte, articleURL string) string {
	pageURL, err := url.Parse(articleURL)
	if err != nil {
		pageURL = p.base
	}

	readable, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err != nil {
		return ""
	}
	return normalizeText(readable.TextContent)
}
