package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/sqlainsaad5/eventify-bell/internal/model"
)

// Journal records read-state requests sent to the notification API.
type Journal interface {
	RecordReadState(ctx context.Context, e model.ReadStateEntry) error
	ListReadState(ctx context.Context, limit int) ([]model.ReadStateEntry, error)
	ConfirmedReads(ctx context.Context, id model.ID) (int, error)
}

// SQLiteJournal implements Journal using a local SQLite database.
type SQLiteJournal struct {
	db *sqlx.DB
}

// NewSQLiteJournal opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database lives on a single connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	j := &SQLiteJournal{db: db}
	if err := j.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return j, nil
}

// Close closes the underlying database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (j *SQLiteJournal) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := j.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = j.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := j.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// journalRow is the database shape of a ReadStateEntry.
type journalRow struct {
	ID             string    `db:"id"`
	Op             string    `db:"op"`
	NotificationID string    `db:"notification_id"`
	Confirmed      bool      `db:"confirmed"`
	Error          string    `db:"error"`
	At             time.Time `db:"at"`
}

// RecordReadState appends an entry. A missing ID or timestamp is filled in.
func (j *SQLiteJournal) RecordReadState(
	ctx context.Context,
	e model.ReadStateEntry,
) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	_, err := j.db.NamedExecContext(ctx, `
		INSERT INTO read_state_journal (id, op, notification_id, confirmed, error, at)
		VALUES (:id, :op, :notification_id, :confirmed, :error, :at)`,
		journalRow{
			ID:             e.ID,
			Op:             string(e.Op),
			NotificationID: string(e.NotificationID),
			Confirmed:      e.Confirmed,
			Error:          e.Error,
			At:             e.At.UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("recording %s for %q: %w", e.Op, e.NotificationID, err)
	}
	return nil
}

// ListReadState returns the most recent entries, newest first. A
// non-positive limit returns every entry.
func (j *SQLiteJournal) ListReadState(
	ctx context.Context,
	limit int,
) ([]model.ReadStateEntry, error) {
	query := "SELECT id, op, notification_id, confirmed, error, at FROM read_state_journal ORDER BY at DESC, rowid DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var rows []journalRow
	if err := j.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("querying read-state journal: %w", err)
	}

	entries := make([]model.ReadStateEntry, len(rows))
	for i, r := range rows {
		entries[i] = model.ReadStateEntry{
			ID:             r.ID,
			Op:             model.ReadStateOp(r.Op),
			NotificationID: model.ID(r.NotificationID),
			Confirmed:      r.Confirmed,
			Error:          r.Error,
			At:             r.At,
		}
	}
	return entries, nil
}

// ConfirmedReads counts confirmed mark-read requests for id.
func (j *SQLiteJournal) ConfirmedReads(ctx context.Context, id model.ID) (int, error) {
	var n int
	err := j.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM read_state_journal WHERE op = ? AND notification_id = ? AND confirmed = 1",
		string(model.OpMarkRead), string(id),
	)
	if err != nil {
		return 0, fmt.Errorf("counting confirmed reads for %q: %w", id, err)
	}
	return n, nil
}
