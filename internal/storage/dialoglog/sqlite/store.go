// Package sqlite provides a SQLite-backed dialog log.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/zhouzirui/mylife/backend/internal/storage/dialoglog/sqlite/migrations"
)

// ErrDialogNotFound is returned when an update targets an unknown dialog.
var ErrDialogNotFound = errors.New("dialog not found")

// Dialog is one stored dialog lifecycle row.
type Dialog struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
	State     string
}

// Store persists dialog lifecycle rows. It never stores user text.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database file, creating its directory, and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Begin inserts a new dialog row and returns its id.
func (s *Store) Begin(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := s.Create(ctx, id, time.Now().UTC()); err != nil {
		return "", err
	}
	return id, nil
}

// End closes the dialog with its final state.
func (s *Store) End(ctx context.Context, id, final string) error {
	return s.Finish(ctx, id, final, time.Now().UTC())
}

// Create inserts a dialog row with the started state.
func (s *Store) Create(ctx context.Context, id string, startedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("dialog id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO dialogs (id, started_at, dialog_state) VALUES (?, ?, ?)`,
		id, toMillis(startedAt), "started",
	)
	if err != nil {
		return fmt.Errorf("create dialog: %w", err)
	}
	return nil
}

// SetState updates the current dialog state.
func (s *Store) SetState(ctx context.Context, id, state string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE dialogs SET dialog_state = ? WHERE id = ?`,
		state, id,
	)
	if err != nil {
		return fmt.Errorf("update dialog state: %w", err)
	}
	return requireRow(res)
}

// Finish stores the final state and end time.
func (s *Store) Finish(ctx context.Context, id, final string, endedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE dialogs SET dialog_state = ?, ended_at = ? WHERE id = ?`,
		final, toMillis(endedAt), id,
	)
	if err != nil {
		return fmt.Errorf("end dialog: %w", err)
	}
	return requireRow(res)
}

// GetDialog loads one dialog row.
func (s *Store) GetDialog(ctx context.Context, id string) (Dialog, error) {
	if err := s.ready(ctx); err != nil {
		return Dialog{}, err
	}
	var (
		d       Dialog
		started int64
		ended   sql.NullInt64
	)
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, started_at, ended_at, dialog_state FROM dialogs WHERE id = ?`, id)
	if err := row.Scan(&d.ID, &started, &ended, &d.State); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Dialog{}, ErrDialogNotFound
		}
		return Dialog{}, fmt.Errorf("get dialog: %w", err)
	}
	d.StartedAt = fromMillis(started)
	if ended.Valid {
		t := fromMillis(ended.Int64)
		d.EndedAt = &t
	}
	return d, nil
}

// CountByState returns dialog counts per current state.
func (s *Store) CountByState(ctx context.Context) (map[string]int, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT dialog_state, COUNT(1) FROM dialogs GROUP BY dialog_state`)
	if err != nil {
		return nil, fmt.Errorf("count dialogs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			state string
			n     int
		)
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("scan dialog count: %w", err)
		}
		counts[state] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dialog counts: %w", err)
	}
	return counts, nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrDialogNotFound
	}
	return nil
}
