package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// Fixed-width UTC timestamps so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteDocuments implements DocumentStore on a local SQLite database.
type SQLiteDocuments struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDocuments, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer keeps the pure-Go driver free of SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	s, err := NewSQLiteDocuments(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteDocuments wraps an open database and applies migrations.
func NewSQLiteDocuments(ctx context.Context, db *sql.DB) (*SQLiteDocuments, error) {
	s := &SQLiteDocuments{db: db, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close releases the database.
func (s *SQLiteDocuments) Close() error {
	return s.db.Close()
}

func (s *SQLiteDocuments) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			item_name TEXT NOT NULL DEFAULT '',
			monitor INTEGER NOT NULL DEFAULT 0,
			confidence INTEGER NOT NULL DEFAULT 0,
			user_tags JSON,
			image_url TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_matches_created_at ON matches(created_at);`,
		`CREATE TABLE IF NOT EXISTS profiles (
			uid TEXT PRIMARY KEY,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddMatch inserts m, filling in the ID and timestamp when unset.
func (s *SQLiteDocuments) AddMatch(ctx context.Context, m Match) (Match, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}
	if m.UserTags == nil {
		m.UserTags = []string{}
	}
	tags, err := json.Marshal(m.UserTags)
	if err != nil {
		return Match{}, fmt.Errorf("encode tags: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO matches (id, item_name, monitor, confidence, user_tags, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ItemName, m.Monitor, m.Confidence, string(tags), m.ImageURL, formatTime(m.CreatedAt),
	)
	if err != nil {
		return Match{}, fmt.Errorf("insert match: %w", err)
	}
	return m, nil
}

// ListMatches returns matches newest first. limit <= 0 returns all of them.
func (s *SQLiteDocuments) ListMatches(ctx context.Context, limit int) ([]Match, error) {
	query := `
		SELECT id, item_name, monitor, confidence, user_tags, image_url, created_at
		FROM matches
		ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMatch(rows *sql.Rows) (Match, error) {
	var (
		m         Match
		tagsJSON  sql.NullString
		createdAt string
	)
	if err := rows.Scan(&m.ID, &m.ItemName, &m.Monitor, &m.Confidence, &tagsJSON, &m.ImageURL, &createdAt); err != nil {
		return Match{}, fmt.Errorf("scan match: %w", err)
	}
	m.UserTags = []string{}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &m.UserTags); err != nil {
			return Match{}, fmt.Errorf("decode tags of match %s: %w", m.ID, err)
		}
	}
	m.CreatedAt = parseTime(createdAt)
	return m, nil
}

// DeleteMatch removes a match by ID.
func (s *SQLiteDocuments) DeleteMatch(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetProfile loads the profile for uid.
func (s *SQLiteDocuments) GetProfile(ctx context.Context, uid string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT uid, first_name, last_name, email, updated_at
		FROM profiles WHERE uid = ?`, uid)
	var (
		p         Profile
		updatedAt string
	)
	if err := row.Scan(&p.UID, &p.FirstName, &p.LastName, &p.Email, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", uid, ErrNotFound)
		}
		return nil, fmt.Errorf("query profile: %w", err)
	}
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

// PutProfile inserts or replaces the profile for p.UID.
func (s *SQLiteDocuments) PutProfile(ctx context.Context, p Profile) error {
	if p.UID == "" {
		return errors.New("put profile: missing uid")
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (uid, first_name, last_name, email, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(uid) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			updated_at = excluded.updated_at`,
		p.UID, p.FirstName, p.LastName, p.Email, formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	if t, err := time.Parse(timeLayout, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	return time.Time{}
}
