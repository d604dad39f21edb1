package database

import (
	"time"
)

// Source represents a configured news origin in the database
type Source struct {
	ID          string // Database UUID
	Name        string
	URL         string
	ParserClass string
	IsActive    bool
	LastCrawled *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Article represents one persisted, deduplicated piece of crawled content
type Article struct {
	ID            string
	SourceID      string
	URL           string
	Title         string
	Content       string
	Summary       string
	Author        string
	PublishedDate *time.Time
	ScrapedDate   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
