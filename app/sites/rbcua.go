package sites

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/skovalov/news-crawler/app/config"
	"github.com/skovalov/news-crawler/app/crawler"
)

var _ crawler.SiteParser = (*RBCUkraineParser)(nil)

// RBCUkraineParser crawls RBC Ukraine through its date-based archive pages
// (https://www.rbc.ua/ukr/archive/YYYY/MM/DD), so it supports single dates
// and date ranges natively.
type RBCUkraineParser struct {
	cfg  *config.SourceConfig
	base *url.URL
}

var rbcURLDate = regexp.MustCompile(`/(\d{4})/(\d{2})/(\d{2})/`)

func NewRBCUkraineParser(cfg *config.SourceConfig) (crawler.SiteParser, error) {
	base, _ := url.Parse("https://www.rbc.ua")
	return &RBCUkraineParser{cfg: cfg, base: base}, nil
}

func (p *RBCUkraineParser) ListArticleURLs(ctx context.Context, session *crawler.Session, period crawler.Period) ([]string, error) {
	var urls []string

	for _, day := range period.Days() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		archiveURL := fmt.Sprintf("https://www.rbc.ua/ukr/archive/%04d/%02d/%02d",
			day.Year(), day.Month(), day.Day())

		html, err := session.Fetch(ctx, archiveURL)
		if err != nil {
			// A missing archive day is not fatal to the listing
			slog.Warn("Archive page fetch failed", "url", archiveURL, "error", err)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
		if err != nil {
			slog.Warn("Archive page parse failed", "url", archiveURL, "error", err)
			continue
		}

		links := doc.Find("div.newsline div a")
		if links.Length() == 0 {
			links = doc.Find("div.newsline a")
		}
		if links.Length() == 0 {
			links = doc.Find("a.item__title")
		}
		if links.Length() == 0 {
			links = doc.Find("div.item a")
		}

		links.Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok {
				return
			}
			absolute := absoluteURL(p.base, href)
			if isValidURL(absolute) && strings.Contains(absolute, "rbc.ua") && strings.Contains(absolute, "/news/") {
				urls = append(urls, absolute)
			}
		})
	}

	return capURLs(uniqueURLs(urls), p.cfg.Settings.MaxArticles), nil
}

func (p *RBCUkraineParser) ParseArticle(ctx context.Context, session *crawler.Session, articleURL string) (*crawler.ParsedArticle, error) {
	html, err := session.Fetch(ctx, articleURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &crawler.ParseError{URL: articleURL, Reason: "invalid HTML", Err: err}
	}

	title := extractText(doc, "h1.article__title")
	if title == "" {
		title = extractText(doc, "h1")
	}
	if title == "" {
		return nil, nil
	}

	content := joinParagraphs(doc.Find("div.article__text").First())
	if content == "" {
		content = joinParagraphs(doc.Find("article").First())
	}

	article := &crawler.ParsedArticle{
		Title:   title,
		Content: content,
		Summary: summarize(content),
	}

	article.PublishedDate = p.extractDate(doc, articleURL)

	return article, nil
}

func (p *RBCUkraineParser) extractDate(doc *goquery.Document, articleURL string) *time.Time {
	raw := extractAttr(doc, "time", "datetime")
	if raw == "" {
		raw = extractText(doc, "time")
	}
	if raw == "" {
		raw = extractText(doc, "div.article__date, span.article__date")
	}
	if raw == "" {
		raw = extractAttr(doc, `meta[property="article:published_time"]`, "content")
	}
	if raw == "" {
		if m := rbcURLDate.FindStringSubmatch(articleURL); m != nil {
			raw = fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
		}
	}
	return parseDate(raw)
}
