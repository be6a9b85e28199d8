// Package history keeps simulated timelines in a SQLite database so runs can
// be listed and inspected later.
package history

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
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/inference-sim/stepgen/sim"
)

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("run not found")

// Run is one stored simulation. Timeline is the JSON-encoded sim.Timeline;
// List leaves it empty.
type Run struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Protocol  string          `json:"protocol"`
	Commands  int             `json:"commands"`
	Frames    int             `json:"frames"`
	Warnings  int             `json:"warnings"`
	Halted    bool            `json:"halted"`
	Timeline  json.RawMessage `json:"timeline,omitempty"`
}

// Store persists runs to a single SQLite table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "stepgen.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		protocol TEXT NOT NULL,
		commands INTEGER NOT NULL,
		frames INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		halted INTEGER NOT NULL,
		timeline BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a finished timeline under a new id. commands is the length of
// the input command list.
func (s *Store) Save(ctx context.Context, protocol string, commands int, tl sim.Timeline) (retRun Run, retErr error) {
	payload, err := json.Marshal(tl)
	if err != nil {
		return Run{}, fmt.Errorf("encode timeline: %w", err)
	}
	run := Run{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Protocol:  protocol,
		Commands:  commands,
		Frames:    len(tl.Frames),
		Warnings:  len(tl.Warnings()),
		Halted:    tl.Error != nil,
		Timeline:  payload,
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, protocol, commands, frames, warnings, halted, timeline) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UnixNano(), run.Protocol, run.Commands, run.Frames, run.Warnings, run.Halted, []byte(run.Timeline),
	); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

// List returns up to limit runs, newest first, without their timelines.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, protocol, commands, frames, warnings, halted FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var runs []Run
	for rows.Next() {
		var (
			r       Run
			created int64
		)
		if err := rows.Scan(&r.ID, &created, &r.Protocol, &r.Commands, &r.Frames, &r.Warnings, &r.Halted); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r.CreatedAt = time.Unix(0, created).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns one run with its timeline.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	var (
		r        Run
		created  int64
		timeline []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, protocol, commands, frames, warnings, halted, timeline FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &created, &r.Protocol, &r.Commands, &r.Frames, &r.Warnings, &r.Halted, &timeline)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("select run: %w", err)
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	r.Timeline = timeline
	return r, nil
}
