package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ SourceRepository = (*SourceRepo)(nil)

// SourceRepo handles database operations for sources
type SourceRepo struct {
	db *DB
}

// NewSourceRepository creates a new source repository
func NewSourceRepository(db *DB) *SourceRepo {
	return &SourceRepo{db: db}
}

// UpsertSource registers a source keyed on its canonical URL. An existing
// source keeps its id, active flag and last_crawled marker; name and parser
// binding are refreshed from configuration.
func (r *SourceRepo) UpsertSource(name, url, parserClass string) (string, error) {
	existing, err := r.GetSourceByURL(url)
	if err != nil {
		return "", fmt.Errorf("failed to check existing source: %w", err)
	}

	now := time.Now().UTC()

	if existing != nil {
		_, err = r.db.Exec(`
			UPDATE sources
			SET name = ?, parser_class = ?, updated_at = ?
			WHERE id = ?
		`, name, parserClass, now, existing.ID)
		if err != nil {
			return "", fmt.Errorf("failed to update source: %w", err)
		}
		return existing.ID, nil
	}

	id := uuid.New().String()
	_, err = r.db.Exec(`
		INSERT INTO sources (id, name, url, parser_class, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
	`, id, name, url, parserClass, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert source: %w", err)
	}

	return id, nil
}

// GetSource retrieves a source by its database id
func (r *SourceRepo) GetSource(id string) (*Source, error) {
	return r.getSource(`WHERE id = ?`, id)
}

// GetSourceByURL retrieves a source by its canonical URL
func (r *SourceRepo) GetSourceByURL(url string) (*Source, error) {
	return r.getSource(`WHERE url = ?`, url)
}

func (r *SourceRepo) getSource(where string, arg interface{}) (*Source, error) {
	var source Source
	var isActive int

	err := r.db.QueryRow(`
		SELECT id, name, url, parser_class, is_active, last_crawled, created_at, updated_at
		FROM sources `+where, arg).Scan(
		&source.ID, &source.Name, &source.URL, &source.ParserClass,
		&isActive, &source.LastCrawled, &source.CreatedAt, &source.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	source.IsActive = isActive != 0
	return &source, nil
}

// ListActiveSources returns all sources with the active flag set, in
// registration order.
func (r *SourceRepo) ListActiveSources() ([]Source, error) {
	rows, err := r.db.Query(`
		SELECT id, name, url, parser_class, is_active, last_crawled, created_at, updated_at
		FROM sources
		WHERE is_active = 1
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var source Source
		var isActive int
		err := rows.Scan(
			&source.ID, &source.Name, &source.URL, &source.ParserClass,
			&isActive, &source.LastCrawled, &source.CreatedAt, &source.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		source.IsActive = isActive != 0
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return sources, nil
}

// TouchSource records a completed crawl by advancing last_crawled
func (r *SourceRepo) TouchSource(id string, crawledAt time.Time) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET last_crawled = ?, updated_at = ?
		WHERE id = ?
	`, crawledAt, crawledAt, id)

	if err != nil {
		return fmt.Errorf("failed to touch source: %w", err)
	}

	return nil
}

// SetSourceActive sets the active status of a source
func (r *SourceRepo) SetSourceActive(id string, active bool) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET is_active = ?, updated_at = ?
		WHERE id = ?
	`, active, time.Now().UTC(), id)

	if err != nil {
		return fmt.Errorf("failed to set source active status: %w", err)
	}

	return nil
}

// GetSourceCount returns the total number of sources
func (r *SourceRepo) GetSourceCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}
