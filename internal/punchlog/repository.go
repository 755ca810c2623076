package punchlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// MemoryPath keeps the journal in memory for the lifetime of the process.
const MemoryPath = ":memory:"

// timeLayout has a fixed width so submitted_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var errNilEntry = errors.New("entry is nil")

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	if path == "" {
		path = MemoryPath
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal: %w", err)
	}

	return repo, nil
}

func (r *Repository) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS punches (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		submitted_at TEXT NOT NULL,
		elapsed INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT '',
		succeeded INTEGER NOT NULL DEFAULT 0,
		detail TEXT NOT NULL DEFAULT ''
	)
	`
	_, err := r.db.Exec(query)
	return err
}

// Record inserts e, assigning an ID when it has none.
func (r *Repository) Record(ctx context.Context, e *Entry) error {
	if e == nil {
		return errNilEntry
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SubmittedAt.IsZero() {
		e.SubmittedAt = time.Now()
	}

	succeeded := 0
	if e.Succeeded {
		succeeded = 1
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO punches (id, kind, submitted_at, elapsed, status, succeeded, detail) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.ID,
		e.Kind,
		e.SubmittedAt.UTC().Format(timeLayout),
		int64(e.Elapsed),
		e.Status,
		succeeded,
		e.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert punch: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, kind, submitted_at, elapsed, status, succeeded, detail FROM punches ORDER BY submitted_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query punches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var submittedAt string
		var elapsed int64
		var succeeded int
		if err := rows.Scan(&e.ID, &e.Kind, &submittedAt, &elapsed, &e.Status, &succeeded, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan punch: %w", err)
		}
		e.SubmittedAt, _ = time.Parse(timeLayout, submittedAt)
		e.Elapsed = time.Duration(elapsed)
		e.Succeeded = succeeded == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *Repository) Close() error {
	return r.db.Close()
}
