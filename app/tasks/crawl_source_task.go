package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skovalov/news-crawler/app/crawler"
	"github.com/skovalov/news-crawler/app/database"
)

// CrawlSourceTask crawls one source with its own fetch session. Sources run
// as independent tasks, so rate limiting stays scoped per source while the
// worker pool crawls several sources at once.
type CrawlSourceTask struct {
	Task
	Source  database.Source
	manager *crawler.Manager
	period  crawler.Period
	opts    crawler.Options
}

func NewCrawlSourceTask(source database.Source, manager *crawler.Manager,
	period crawler.Period, opts crawler.Options) *CrawlSourceTask {
	return &CrawlSourceTask{
		Task:    NewTask(TaskTypeCrawlSource, source.Name),
		Source:  source,
		manager: manager,
		period:  period,
		opts:    opts,
	}
}

func (t *CrawlSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	stats, err := t.manager.CrawlSource(ctx, t.Source, t.period, t.opts)
	if err != nil {
		return fmt.Errorf("failed to crawl source: %w", err)
	}

	if stats.Failed {
		return fmt.Errorf("source crawl failed: %s", stats.FailureReason)
	}

	slog.Info("Task completed",
		"type", "CrawlSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"found", stats.Found,
		"saved", stats.Saved,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"errors", stats.Errors)

	return nil
}
