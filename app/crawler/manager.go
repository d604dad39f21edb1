package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/skovalov/news-crawler/app/config"
	"github.com/skovalov/news-crawler/app/database"
)

// Options selects the behavior of one crawl run.
type Options struct {
	// Refresh re-fetches and re-parses URLs that are already stored,
	// refreshing stale metadata instead of skipping them as duplicates.
	Refresh bool
}

// Manager drives a crawl run across sources with per-source and per-article
// failure isolation. The worst outcome of a malfunctioning article or source
// is a non-zero error counter; only persistence-level failures abort a run.
type Manager struct {
	sources     database.SourceRepository
	articles    database.ArticleRepository
	registry    *Registry
	configs     *config.Cache
	sessionOpts SessionOptions
}

func NewManager(sources database.SourceRepository, articles database.ArticleRepository,
	registry *Registry, configs *config.Cache, sessionOpts SessionOptions) *Manager {
	return &Manager{
		sources:     sources,
		articles:    articles,
		registry:    registry,
		configs:     configs,
		sessionOpts: sessionOpts,
	}
}

// Run crawls every active source for the period, sequentially, and returns
// aggregate statistics. Cancelling ctx stops the run between articles or
// sources; the statistics gathered so far are still returned. The only error
// paths are persistence-level: listing sources or writing through the
// repositories.
func (m *Manager) Run(ctx context.Context, period Period, opts Options) (*RunStats, error) {
	activeSources, err := m.sources.ListActiveSources()
	if err != nil {
		return nil, fmt.Errorf("failed to list active sources: %w", err)
	}

	stats := &RunStats{StartedAt: time.Now().UTC()}

	slog.Info("Crawl run starting", "sources", len(activeSources), "refresh", opts.Refresh)

	for i := range activeSources {
		if ctx.Err() != nil {
			slog.Info("Crawl run cancelled", "remaining_sources", len(activeSources)-i)
			break
		}

		sourceStats, err := m.CrawlSource(ctx, activeSources[i], period, opts)
		if err != nil {
			return nil, err
		}
		stats.add(sourceStats)
	}

	stats.Duration = time.Since(stats.StartedAt)

	slog.Info("Crawl run complete",
		"sources_crawled", stats.SourcesCrawled,
		"sources_failed", stats.SourcesFailed,
		"found", stats.Found,
		"saved", stats.Saved,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"duration", stats.Duration.String())

	return stats, nil
}

// CrawlSource crawls one source with a fresh fetch session. Parser resolution
// and URL listing failures mark the source as failed and leave last_crawled
// untouched; per-article fetch and parse failures only increment the error
// counter. A returned error always means a persistence failure and aborts the
// whole run.
func (m *Manager) CrawlSource(ctx context.Context, src database.Source, period Period, opts Options) (SourceStats, error) {
	stats := SourceStats{SourceID: src.ID, SourceName: src.Name}

	factory, err := m.registry.Resolve(src.ParserClass)
	if err != nil {
		slog.Warn("Source failed", "source", src.Name, "error", err)
		stats.Failed = true
		stats.FailureReason = err.Error()
		return stats, nil
	}

	parser, err := factory(m.sourceConfig(src))
	if err != nil {
		slog.Warn("Source failed", "source", src.Name, "error", err)
		stats.Failed = true
		stats.FailureReason = err.Error()
		return stats, nil
	}

	session := NewSession(m.sessionOpts)

	urls, err := parser.ListArticleURLs(ctx, session, period)
	if err != nil {
		if ctx.Err() != nil {
			return stats, nil
		}
		slog.Warn("Source failed", "source", src.Name, "error", err)
		stats.Failed = true
		stats.FailureReason = err.Error()
		return stats, nil
	}

	stats.Found = len(urls)
	slog.Info("Source listing complete", "source", src.Name, "found", len(urls))

	cancelled := false

	for _, articleURL := range urls {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		exists, err := m.articles.HasArticleURL(articleURL)
		if err != nil {
			return stats, fmt.Errorf("failed to check article URL: %w", err)
		}
		if exists && !opts.Refresh {
			stats.Skipped++
			continue
		}

		parsed, err := parser.ParseArticle(ctx, session, articleURL)
		if err != nil {
			if ctx.Err() != nil {
				cancelled = true
				break
			}
			slog.Warn("Article failed", "source", src.Name, "url", articleURL, "error", err)
			stats.Errors++
			continue
		}

		if parsed == nil || strings.TrimSpace(parsed.Title) == "" {
			slog.Debug("Not an article, skipping", "source", src.Name, "url", articleURL)
			continue
		}

		result, err := m.articles.UpsertArticle(database.NewArticle{
			SourceID:      src.ID,
			URL:           articleURL,
			Title:         parsed.Title,
			Content:       parsed.Content,
			Summary:       parsed.Summary,
			Author:        parsed.Author,
			PublishedDate: parsed.PublishedDate,
		})
		if err != nil {
			return stats, fmt.Errorf("failed to upsert article: %w", err)
		}

		if result == database.UpsertCreated {
			stats.Saved++
		} else {
			stats.Updated++
		}
	}

	if !cancelled {
		if err := m.sources.TouchSource(src.ID, time.Now().UTC()); err != nil {
			return stats, fmt.Errorf("failed to touch source: %w", err)
		}
	}

	slog.Info("Source crawl complete",
		"source", src.Name,
		"found", stats.Found,
		"saved", stats.Saved,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"errors", stats.Errors)

	return stats, nil
}

// sourceConfig resolves the seed configuration for a source row, falling back
// to a minimal config derived from the row itself when no YAML file matches
// (site-specific parsers need nothing beyond the URL).
func (m *Manager) sourceConfig(src database.Source) *config.SourceConfig {
	if m.configs != nil {
		if cfg, err := m.configs.GetConfigByURL(src.URL); err == nil {
			return cfg
		}
	}
	return &config.SourceConfig{
		Name:        src.Name,
		DisplayName: src.Name,
		URL:         src.URL,
		Parser:      src.ParserClass,
	}
}
