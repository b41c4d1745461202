// Package store persists view state between runs: which sections the user
// left open and which sub-items were recently viewed. State lives in a
// SQLite database under the XDG state directory.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS open_sections (
	page_id    TEXT NOT NULL,
	section_id TEXT NOT NULL,
	open       INTEGER NOT NULL,
	PRIMARY KEY (page_id, section_id)
);

CREATE TABLE IF NOT EXISTS viewed (
	page_id     TEXT NOT NULL,
	section_id  TEXT NOT NULL,
	sub_item_id TEXT NOT NULL,
	viewed_at   TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_viewed_page ON viewed(page_id, viewed_at DESC);
`

// Store is a SQLite-backed view state store.
type Store struct {
	db   *sql.DB
	path string
}

// ViewedEntry is one recently viewed sub-item.
type ViewedEntry struct {
	SectionID string
	SubItemID string
	ViewedAt  time.Time
}

// Open opens (creating if needed) the state database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open state database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing state schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SaveOpenSections replaces the persisted open state for a page.
func (s *Store) SaveOpenSections(pageID string, open map[string]bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM open_sections WHERE page_id = ?`, pageID); err != nil {
		return fmt.Errorf("clearing open sections: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO open_sections (page_id, section_id, open) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for sectionID, isOpen := range open {
		v := 0
		if isOpen {
			v = 1
		}
		if _, err := stmt.Exec(pageID, sectionID, v); err != nil {
			return fmt.Errorf("saving section %s: %w", sectionID, err)
		}
	}

	return tx.Commit()
}

// LoadOpenSections returns the persisted open state for a page. Pages
// never saved return an empty map.
func (s *Store) LoadOpenSections(pageID string) (map[string]bool, error) {
	rows, err := s.db.Query(`SELECT section_id, open FROM open_sections WHERE page_id = ?`, pageID)
	if err != nil {
		return nil, fmt.Errorf("loading open sections: %w", err)
	}
	defer rows.Close()

	open := make(map[string]bool)
	for rows.Next() {
		var sectionID string
		var isOpen int
		if err := rows.Scan(&sectionID, &isOpen); err != nil {
			continue
		}
		open[sectionID] = isOpen != 0
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating open sections: %w", err)
	}
	return open, nil
}

// RecordViewed records that a sub-item was opened.
func (s *Store) RecordViewed(pageID, sectionID, subItemID string, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO viewed (page_id, section_id, sub_item_id, viewed_at) VALUES (?, ?, ?, ?)`,
		pageID, sectionID, subItemID, at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording view: %w", err)
	}
	return nil
}

// RecentlyViewed returns the most recently viewed sub-items for a page,
// newest first, deduplicated by sub-item.
func (s *Store) RecentlyViewed(pageID string, limit int) ([]ViewedEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`
		SELECT section_id, sub_item_id, MAX(viewed_at) AS last_viewed
		FROM viewed
		WHERE page_id = ?
		GROUP BY section_id, sub_item_id
		ORDER BY last_viewed DESC
		LIMIT ?`, pageID, limit)
	if err != nil {
		return nil, fmt.Errorf("loading recently viewed: %w", err)
	}
	defer rows.Close()

	var entries []ViewedEntry
	for rows.Next() {
		var e ViewedEntry
		var viewedAt sql.NullTime
		if err := rows.Scan(&e.SectionID, &e.SubItemID, &viewedAt); err != nil {
			continue
		}
		if viewedAt.Valid {
			e.ViewedAt = viewedAt.Time
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recently viewed: %w", err)
	}
	return entries, nil
}
