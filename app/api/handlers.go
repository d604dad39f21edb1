package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skovalov/news-crawler/app/config"
	"github.com/skovalov/news-crawler/app/crawler"
	"github.com/skovalov/news-crawler/app/database"
)

func NewHandler(sourceRepo database.SourceRepository, articleRepo database.ArticleRepository,
	configCache *config.Cache, manager *crawler.Manager) *Handler {
	return &Handler{
		sourceRepo:  sourceRepo,
		articleRepo: articleRepo,
		configCache: configCache,
		manager:     manager,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		health["sources"] = sourceCount
	}
	if articleCount, err := h.articleRepo.GetArticleCount(); err == nil {
		health["articles"] = articleCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{}

	sourceCount, err := h.sourceRepo.GetSourceCount()
	if err != nil {
		slog.Error("Database error", "operation", "get_source_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	stats["sources"] = sourceCount

	articleCount, err := h.articleRepo.GetArticleCount()
	if err != nil {
		slog.Error("Database error", "operation", "get_article_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	stats["articles"] = articleCount

	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	if scrapedToday, err := h.articleRepo.CountScrapedSince(midnight); err == nil {
		stats["scraped_today"] = scrapedToday
	}

	c.JSON(http.StatusOK, stats)
}

// GetArticles is the reporting read path: keyword, source and published-date
// range filters, newest first.
func (h *Handler) GetArticles(c *gin.Context) {
	filter := database.ArticleFilter{
		Keyword:  c.Query("q"),
		SourceID: c.Query("source_id"),
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		filter.Limit = limit
	}

	var parseErr bool
	filter.From, parseErr = parseDateParam(c.Query("from"))
	if parseErr {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return
	}
	filter.To, parseErr = parseDateParam(c.Query("to"))
	if parseErr {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return
	}

	articles, err := h.articleRepo.SearchArticles(filter)
	if err != nil {
		slog.Error("Database error", "operation", "search_articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := make([]ArticleResponse, 0, len(articles))
	for _, article := range articles {
		response = append(response, ArticleResponse{
			ID:            article.ID,
			SourceID:      article.SourceID,
			URL:           article.URL,
			Title:         article.Title,
			Summary:       article.Summary,
			Author:        article.Author,
			PublishedDate: article.PublishedDate,
			ScrapedDate:   article.ScrapedDate,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": response,
		"total":    len(response),
	})
}

func (h *Handler) GetSources(c *gin.Context) {
	sources, err := h.sourceRepo.ListActiveSources()
	if err != nil {
		slog.Error("Database error", "operation", "list_active_sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := make([]SourceResponse, 0, len(sources))
	for _, source := range sources {
		sourceResponse := SourceResponse{
			ID:          source.ID,
			Name:        source.Name,
			URL:         source.URL,
			ParserClass: source.ParserClass,
			IsActive:    source.IsActive,
			LastCrawled: source.LastCrawled,
		}
		if count, err := h.articleRepo.GetArticleCountBySource(source.ID); err == nil {
			sourceResponse.ArticleCount = count
		}
		response = append(response, sourceResponse)
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": response,
		"total":   len(response),
	})
}

// APITriggerCrawl runs a crawl across all active sources on demand. Optional
// query parameters: start/end (YYYY-MM-DD) scope the period, refresh=true
// re-parses already stored URLs.
func (h *Handler) APITriggerCrawl(c *gin.Context) {
	var period crawler.Period

	start, parseErr := parseDateParam(c.Query("start"))
	if parseErr {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date, expected YYYY-MM-DD"})
		return
	}
	end, parseErr := parseDateParam(c.Query("end"))
	if parseErr {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date, expected YYYY-MM-DD"})
		return
	}
	if start != nil {
		period.Start = *start
	}
	if end != nil {
		period.End = *end
	}

	opts := crawler.Options{Refresh: c.Query("refresh") == "true"}

	stats, err := h.manager.Run(c.Request.Context(), period, opts)
	if err != nil {
		slog.Error("Crawl run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Crawl run failed"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func parseDateParam(value string) (*time.Time, bool) {
	if value == "" {
		return nil, false
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, true
	}
	utc := t.UTC()
	return &utc, false
}
