package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"colmeia-quiz-service/internal/domain"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store keeps the dashboard and history in a single SQLite file.
type Store struct {
	db *sqlx.DB
}

type historyRow struct {
	ID         int64  `db:"id"`
	RecordedAt string `db:"recorded_at"`
	Data       string `db:"data"`
}

// Open connects to path (":memory:" is accepted) and creates the schema.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite doesn't support multiple writers; a single connection also keeps :memory: shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}
	if err := store.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initializeSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS dashboard_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create dashboard_state table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS history_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at TEXT NOT NULL,
			data TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create history_entries table: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (domain.DashboardState, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw, `SELECT data FROM dashboard_state WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DashboardState{}, domain.NewStorageError("load", "dashboard_state", domain.ErrNotFound)
	}
	if err != nil {
		return domain.DashboardState{}, domain.NewStorageError("load", "dashboard_state", err)
	}
	var state domain.DashboardState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return domain.DashboardState{}, domain.NewStorageError("load", "dashboard_state", fmt.Errorf("%w: %v", domain.ErrMalformedData, err))
	}
	return state, nil
}

func (s *Store) Save(ctx context.Context, state domain.DashboardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return domain.NewStorageError("save", "dashboard_state", err)
	}
	if _, err := s.db.ExecContext(ctx, upsertDashboardSQL, string(data)); err != nil {
		return domain.NewStorageError("save", "dashboard_state", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, entry domain.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return domain.NewStorageError("append", "history_entries", err)
	}
	if _, err := s.db.ExecContext(ctx, insertHistorySQL, entry.Timestamp, string(data)); err != nil {
		return domain.NewStorageError("append", "history_entries", err)
	}
	return nil
}

// ReadAll returns history in insertion order; unreadable rows are skipped.
func (s *Store) ReadAll(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries := []domain.HistoryEntry{}
	var rows []historyRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, recorded_at, data FROM history_entries ORDER BY id`); err != nil {
		log.Printf("WARN: [SQLiteStore] reading history: %v", err)
		return entries, nil
	}
	for _, row := range rows {
		var entry domain.HistoryEntry
		if err := json.Unmarshal([]byte(row.Data), &entry); err != nil {
			log.Printf("WARN: [SQLiteStore] skipping unreadable history row %d: %v", row.ID, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Store) Truncate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history_entries`); err != nil {
		return domain.NewStorageError("truncate", "history_entries", err)
	}
	return nil
}

// Commit saves the dashboard and appends the entry in one transaction.
func (s *Store) Commit(ctx context.Context, state domain.DashboardState, entry domain.HistoryEntry) error {
	stateData, err := json.Marshal(state)
	if err != nil {
		return domain.NewStorageError("commit", "dashboard_state", err)
	}
	entryData, err := json.Marshal(entry)
	if err != nil {
		return domain.NewStorageError("commit", "history_entries", err)
	}
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertDashboardSQL, string(stateData)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, insertHistorySQL, entry.Timestamp, string(entryData))
		return err
	})
	if err != nil {
		return domain.NewStorageError("commit", "dashboard_state", err)
	}
	return nil
}

// Restore overwrites the dashboard and clears the history in one transaction.
func (s *Store) Restore(ctx context.Context, state domain.DashboardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return domain.NewStorageError("restore", "dashboard_state", err)
	}
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertDashboardSQL, string(data)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM history_entries`)
		return err
	})
	if err != nil {
		return domain.NewStorageError("restore", "dashboard_state", err)
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

const upsertDashboardSQL = `INSERT INTO dashboard_state (id, data, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`

const insertHistorySQL = `INSERT INTO history_entries (recorded_at, data) VALUES (?, ?)`
