package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtnitsch/seo-companion/models"
)

// GetSiteBaseURL returns the stored base URL, or ErrBaseURLMissing when none is set.
func (db *DB) GetSiteBaseURL() (string, error) {
	var baseURL string
	err := db.QueryRow("SELECT base_url FROM sites WHERE site_id = 1").Scan(&baseURL)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrBaseURLMissing
	}
	if err != nil {
		return "", fmt.Errorf("failed to read site: %w", err)
	}
	return baseURL, nil
}

// SetSiteBaseURL stores baseURL, replacing any previous value.
func (db *DB) SetSiteBaseURL(baseURL string) error {
	_, err := db.Exec(`
		INSERT INTO sites (site_id, base_url) VALUES (1, ?)
		ON CONFLICT(site_id) DO UPDATE SET base_url = excluded.base_url, updated_at = CURRENT_TIMESTAMP
	`, baseURL)
	if err != nil {
		return fmt.Errorf("failed to save site: %w", err)
	}
	return nil
}

// ListPages returns the registry in stored order.
func (db *DB) ListPages() ([]models.PageRecord, error) {
	rows, err := db.Query(`
		SELECT id, page_name, page_url, title, meta_name, meta_description,
		       last_modified, change_frequency, priority
		FROM pages
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []models.PageRecord
	for rows.Next() {
		var (
			p            models.PageRecord
			lastModified sql.NullString
			changeFreq   sql.NullString
			priority     sql.NullFloat64
		)
		if err := rows.Scan(&p.ID, &p.PageName, &p.PageURL, &p.Title, &p.MetaName, &p.MetaDescription,
			&lastModified, &changeFreq, &priority); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		p.LastModified = lastModified.String
		p.ChangeFrequency = models.ChangeFrequency(changeFreq.String)
		if priority.Valid {
			p.Priority = models.Float(priority.Float64)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// ReplacePages stores pages as the whole registry in one transaction.
func (db *DB) ReplacePages(pages []models.PageRecord) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM pages"); err != nil {
		return fmt.Errorf("failed to clear pages: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO pages (id, position, page_name, page_url, title, meta_name, meta_description,
		                   last_modified, change_frequency, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range pages {
		var priority sql.NullFloat64
		if p.Priority != nil {
			priority = sql.NullFloat64{Float64: *p.Priority, Valid: true}
		}
		_, err := stmt.Exec(p.ID, i, p.PageName, p.PageURL, p.Title, p.MetaName, p.MetaDescription,
			nullString(p.LastModified), nullString(string(p.ChangeFrequency)), priority)
		if err != nil {
			return fmt.Errorf("failed to insert page %s: %w", p.PageURL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pages: %w", err)
	}
	return nil
}

// ClearPages removes every page and returns how many were deleted.
func (db *DB) ClearPages() (int64, error) {
	res, err := db.Exec("DELETE FROM pages")
	if err != nil {
		return 0, fmt.Errorf("failed to clear pages: %w", err)
	}
	return res.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
