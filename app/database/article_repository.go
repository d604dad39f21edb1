package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ ArticleRepository = (*ArticleRepo)(nil)

// ArticleRepo handles database operations for articles
type ArticleRepo struct {
	db *DB
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

// UpsertArticle inserts a new article or refreshes the mutable fields of an
// existing one, keyed on URL. The existence check and the write share one
// transaction so concurrent crawls observing the same URL cannot both insert.
func (r *ArticleRepo) UpsertArticle(article NewArticle) (UpsertResult, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	var existingID string
	err = tx.QueryRow(`SELECT id FROM articles WHERE url = ?`, article.URL).Scan(&existingID)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.Exec(`
			INSERT INTO articles (id, source_id, url, title, content, summary, author,
			                      published_date, scraped_date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), article.SourceID, article.URL, article.Title,
			article.Content, article.Summary, article.Author,
			article.PublishedDate, now, now, now)
		if err != nil {
			return "", fmt.Errorf("failed to insert article: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("failed to commit article insert: %w", err)
		}
		return UpsertCreated, nil

	case err != nil:
		return "", fmt.Errorf("failed to check existing article: %w", err)

	default:
		_, err = tx.Exec(`
			UPDATE articles
			SET title = ?, content = ?, summary = ?, author = ?,
			    published_date = ?, updated_at = ?
			WHERE id = ?
		`, article.Title, article.Content, article.Summary, article.Author,
			article.PublishedDate, now, existingID)
		if err != nil {
			return "", fmt.Errorf("failed to update article: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("failed to commit article update: %w", err)
		}
		return UpsertUpdated, nil
	}
}

// HasArticleURL reports whether an article with the given URL already exists
func (r *ArticleRepo) HasArticleURL(url string) (bool, error) {
	var one int
	err := r.db.QueryRow(`SELECT 1 FROM articles WHERE url = ? LIMIT 1`, url).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check article URL: %w", err)
	}
	return true, nil
}

// GetArticleByURL retrieves an article by its URL
func (r *ArticleRepo) GetArticleByURL(url string) (*Article, error) {
	var article Article
	err := r.db.QueryRow(`
		SELECT id, source_id, url, title, COALESCE(content, ''), COALESCE(summary, ''),
		       COALESCE(author, ''), published_date, scraped_date, created_at, updated_at
		FROM articles
		WHERE url = ?
	`, url).Scan(
		&article.ID, &article.SourceID, &article.URL, &article.Title,
		&article.Content, &article.Summary, &article.Author,
		&article.PublishedDate, &article.ScrapedDate, &article.CreatedAt, &article.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article by URL: %w", err)
	}

	return &article, nil
}

// SearchArticles returns articles matching the filter, newest first
func (r *ArticleRepo) SearchArticles(filter ArticleFilter) ([]Article, error) {
	query := `
		SELECT id, source_id, url, title, COALESCE(content, ''), COALESCE(summary, ''),
		       COALESCE(author, ''), published_date, scraped_date, created_at, updated_at
		FROM articles
		WHERE 1 = 1
	`
	var args []interface{}

	if filter.Keyword != "" {
		query += ` AND (title LIKE ? OR content LIKE ?)`
		pattern := "%" + filter.Keyword + "%"
		args = append(args, pattern, pattern)
	}
	if filter.SourceID != "" {
		query += ` AND source_id = ?`
		args = append(args, filter.SourceID)
	}
	if filter.From != nil {
		query += ` AND published_date >= ?`
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		query += ` AND published_date <= ?`
		args = append(args, *filter.To)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` ORDER BY COALESCE(published_date, created_at) DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var article Article
		err := rows.Scan(
			&article.ID, &article.SourceID, &article.URL, &article.Title,
			&article.Content, &article.Summary, &article.Author,
			&article.PublishedDate, &article.ScrapedDate, &article.CreatedAt, &article.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

// GetArticleCount returns the total number of articles
func (r *ArticleRepo) GetArticleCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

// GetArticleCountBySource returns the number of articles for one source
func (r *ArticleRepo) GetArticleCountBySource(sourceID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles WHERE source_id = ?", sourceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count by source: %w", err)
	}
	return count, nil
}

// CountScrapedSince returns the number of articles scraped at or after the
// given time.
func (r *ArticleRepo) CountScrapedSince(since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles WHERE scraped_date >= ?", since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count scraped articles: %w", err)
	}
	return count, nil
}
