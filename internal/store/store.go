// Package store archives interchange documents in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Record is one archived document.
type Record struct {
	ID        string
	Name      string
	Payload   []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// New creates or opens a SQLite archive.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		payload BLOB NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	return err
}

// Save upserts a document payload by name. The record keeps its original ID
// and creation time across updates.
func (s *Store) Save(ctx context.Context, name string, payload []byte) (*Record, error) {
	now := time.Now().UTC()
	rec := &Record{ID: uuid.NewString(), Name: name, Payload: payload, CreatedAt: now, UpdatedAt: now}

	existing, err := s.Load(ctx, name)
	switch {
	case err == nil:
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		_, err = s.db.ExecContext(ctx,
			`UPDATE documents SET payload = ?, updated_at = ? WHERE name = ?`,
			payload, now, name)
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO documents (id, name, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			rec.ID, name, payload, now, now)
	default:
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Load retrieves an archived document by name. Returns sql.ErrNoRows when
// the name is unknown.
func (s *Store) Load(ctx context.Context, name string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, payload, created_at, updated_at FROM documents WHERE name = ?`, name)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Payload, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns every archived record without payloads, ordered by name.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM documents ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes an archived document by name.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name)
	return err
}
