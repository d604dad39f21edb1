package api

import (
	"time"

	"github.com/skovalov/news-crawler/app/config"
	"github.com/skovalov/news-crawler/app/crawler"
	"github.com/skovalov/news-crawler/app/database"
)

type Handler struct {
	sourceRepo  database.SourceRepository
	articleRepo database.ArticleRepository
	configCache *config.Cache
	manager     *crawler.Manager
}

type ArticleResponse struct {
	ID            string     `json:"id"`
	SourceID      string     `json:"source_id"`
	URL           string     `json:"url"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary,omitempty"`
	Author        string     `json:"author,omitempty"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	ScrapedDate   time.Time  `json:"scraped_date"`
}

type SourceResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	ParserClass  string     `json:"parser_class"`
	IsActive     bool       `json:"is_active"`
	LastCrawled  *time.Time `json:"last_crawled,omitempty"`
	ArticleCount int        `json:"article_count"`
}
