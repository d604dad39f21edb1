package database

import (
	"time"
)

// UpsertResult reports whether an upsert inserted a new row or refreshed an
// existing one.
type UpsertResult string

const (
	UpsertCreated UpsertResult = "created"
	UpsertUpdated UpsertResult = "updated"
)

// NewArticle carries the parsed fields for a single article write. URL is the
// deduplication key; Title is the only required content field.
type NewArticle struct {
	SourceID      string
	URL           string
	Title         string
	Content       string
	Summary       string
	Author        string
	PublishedDate *time.Time
}

// ArticleFilter scopes SearchArticles. Zero values mean "no constraint";
// Limit defaults to 50 when non-positive.
type ArticleFilter struct {
	Keyword  string
	SourceID string
	From     *time.Time
	To       *time.Time
	Limit    int
}

type SourceRepository interface {
	UpsertSource(name, url, parserClass string) (string, error)
	GetSource(id string) (*Source, error)
	GetSourceByURL(url string) (*Source, error)
	ListActiveSources() ([]Source, error)
	TouchSource(id string, crawledAt time.Time) error
	SetSourceActive(id string, active bool) error
	GetSourceCount() (int, error)
}

type ArticleRepository interface {
	UpsertArticle(article NewArticle) (UpsertResult, error)
	HasArticleURL(url string) (bool, error)
	GetArticleByURL(url string) (*Article, error)
	SearchArticles(filter ArticleFilter) ([]Article, error)
	GetArticleCount() (int, error)
	GetArticleCountBySource(sourceID string) (int, error)
	CountScrapedSince(since time.Time) (int, error)
}
