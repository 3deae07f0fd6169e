// Package store persists translation history to sqlite so it survives
// restarts. The in-memory ring stays the session-scoped source; this store
// is an optional durable mirror behind the history command.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS translation_history (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		provider TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_history_created ON translation_history(created_at);
	CREATE INDEX IF NOT EXISTS idx_history_pair ON translation_history(source_lang, target_lang);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record is one persisted translation.
type Record struct {
	ID             string
	SourceText     string
	TranslatedText string
	SourceLang     string
	TargetLang     string
	Provider       string
	CreatedAt      time.Time
}

// Append writes one completed translation.
func (s *Store) Append(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translation_history (id, source_text, translated_text, source_lang, target_lang, provider, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, normalizeText(rec.SourceText), rec.TranslatedText, rec.SourceLang, rec.TargetLang, rec.Provider, rec.CreatedAt)
	return err
}

// List returns up to limit records, most recent first. limit <= 0 returns
// everything.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, source_text, translated_text, source_lang, target_lang, provider, created_at
		  FROM translation_history ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.SourceText, &r.TranslatedText, &r.SourceLang, &r.TargetLang, &r.Provider, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Stats summarises the persisted history.
type Stats struct {
	TotalEntries int
	Providers    int
	Pairs        int
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT provider),
			COUNT(DISTINCT source_lang || '>' || target_lang)
		FROM translation_history`).Scan(&stats.TotalEntries, &stats.Providers, &stats.Pairs)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Clear removes all history records and reports how many were dropped.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translation_history`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization so
// the same visible text always stores identically.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
