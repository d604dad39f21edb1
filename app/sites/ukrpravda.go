package sites

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skovalov/news-crawler/app/config"
	"github.com/skovalov/news-crawler/app/crawler"
)

var _ crawler.SiteParser = (*UkrPravdaParser)(nil)

// UkrPravdaParser crawls Ukrainska Pravda from its rolling news index. The
// site has no date-addressable archive, so the period only caps the listing.
type UkrPravdaParser struct {
	cfg  *config.SourceConfig
	base *url.URL
}

const ukrPravdaIndexURL = "https://www.pravda.com.ua/news/"

func NewUkrPravdaParser(cfg *config.SourceConfig) (crawler.SiteParser, error) {
	base, _ := url.Parse(ukrPravdaIndexURL)
	return &UkrPravdaParser{cfg: cfg, base: base}, nil
}

func (p *UkrPravdaParser) ListArticleURLs(ctx context.Context, session *crawler.Session, period crawler.Period) ([]string, error) {
	html, err := session.Fetch(ctx, ukrPravdaIndexURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &crawler.ParseError{URL: ukrPravdaIndexURL, Reason: "invalid HTML", Err: err}
	}

	var urls []string
	doc.Find("div.article_header a.article_header").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		absolute := absoluteURL(p.base, href)
		if isValidURL(absolute) && strings.Contains(absolute, "/news/") {
			urls = append(urls, absolute)
		}
	})

	max := p.cfg.Settings.MaxArticles
	if max == 0 || max > 20 {
		// The index lists hundreds of entries; keep the most recent ones
		max = 20
	}

	return capURLs(uniqueURLs(urls), max), nil
}

func (p *UkrPravdaParser) ParseArticle(ctx context.Context, session *crawler.Session, articleURL string) (*crawler.ParsedArticle, error) {
	html, err := session.Fetch(ctx, articleURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &crawler.ParseError{URL: articleURL, Reason: "invalid HTML", Err: err}
	}

	title := extractText(doc, "h1.post_title")
	if title == "" {
		title = extractText(doc, "h1")
	}
	if title == "" {
		return nil, nil
	}

	content := joinParagraphs(doc.Find("div.post_text").First())

	author := extractText(doc, "div.post_author a")
	if author == "" {
		author = "Ukrayinska Pravda"
	}

	return &crawler.ParsedArticle{
		Title:         title,
		Content:       content,
		Summary:       summarize(content),
		Author:        author,
		PublishedDate: parseDate(extractText(doc, "div.post_time")),
	}, nil
}
