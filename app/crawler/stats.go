package crawler

import (
	"time"
)

// SourceStats is the outcome of crawling one source.
type SourceStats struct {
	SourceID      string `json:"source_id"`
	SourceName    string `json:"source_name"`
	Found         int    `json:"found"`
	Saved         int    `json:"saved"`
	Updated       int    `json:"updated"`
	Skipped       int    `json:"skipped"`
	Errors        int    `json:"errors"`
	Failed        bool   `json:"failed"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// RunStats aggregates one crawl run across all attempted sources.
type RunStats struct {
	SourcesCrawled int           `json:"sources_crawled"`
	SourcesFailed  int           `json:"sources_failed"`
	Found          int           `json:"articles_found"`
	Saved          int           `json:"articles_saved"`
	Updated        int           `json:"articles_updated"`
	Skipped        int           `json:"articles_skipped"`
	Errors         int           `json:"errors"`
	Sources        []SourceStats `json:"sources"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
}

func (rs *RunStats) add(ss SourceStats) {
	rs.Sources = append(rs.Sources, ss)

	if ss.Failed {
		rs.SourcesFailed++
		rs.Errors++
		return
	}

	rs.SourcesCrawled++
	rs.Found += ss.Found
	rs.Saved += ss.Saved
	rs.Updated += ss.Updated
	rs.Skipped += ss.Skipped
	rs.Errors += ss.Errors
}
