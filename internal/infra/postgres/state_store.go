package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"colmeia-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const dashboardRowID = 1

// StateStore persists the dashboard as a single JSONB row and the history as one row per entry.
type StateStore struct {
	pool *pgxpool.Pool
}

func NewStateStore(pool *pgxpool.Pool) *StateStore {
	return &StateStore{pool: pool}
}

func (s *StateStore) Load(ctx context.Context) (domain.DashboardState, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM dashboard_state WHERE id=$1`, dashboardRowID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DashboardState{}, domain.NewStorageError("load", "dashboard_state", domain.ErrNotFound)
	}
	if err != nil {
		return domain.DashboardState{}, domain.NewStorageError("load", "dashboard_state", err)
	}
	var state domain.DashboardState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.DashboardState{}, domain.NewStorageError("load", "dashboard_state", fmt.Errorf("%w: %v", domain.ErrMalformedData, err))
	}
	return state, nil
}

func (s *StateStore) Save(ctx context.Context, state domain.DashboardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return domain.NewStorageError("save", "dashboard_state", err)
	}
	if _, err := s.pool.Exec(ctx, upsertDashboardSQL, dashboardRowID, string(data)); err != nil {
		return domain.NewStorageError("save", "dashboard_state", err)
	}
	return nil
}

func (s *StateStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return domain.NewStorageError("append", "history_entries", err)
	}
	if _, err := s.pool.Exec(ctx, insertHistorySQL, entry.Timestamp, string(data)); err != nil {
		return domain.NewStorageError("append", "history_entries", err)
	}
	return nil
}

// ReadAll returns history in insertion order; unreadable rows are skipped.
func (s *StateStore) ReadAll(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries := []domain.HistoryEntry{}
	rows, err := s.pool.Query(ctx, `SELECT data FROM history_entries ORDER BY id`)
	if err != nil {
		log.Printf("WARN: [PostgresStateStore] reading history: %v", err)
		return entries, nil
	}
	defer rows.Close()

	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			log.Printf("WARN: [PostgresStateStore] scanning history row: %v", err)
			continue
		}
		var entry domain.HistoryEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			log.Printf("WARN: [PostgresStateStore] skipping unreadable history row: %v", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		log.Printf("WARN: [PostgresStateStore] iterating history: %v", err)
	}
	return entries, nil
}

func (s *StateStore) Truncate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM history_entries`); err != nil {
		return domain.NewStorageError("truncate", "history_entries", err)
	}
	return nil
}

// Commit saves the dashboard and appends the entry in one transaction.
func (s *StateStore) Commit(ctx context.Context, state domain.DashboardState, entry domain.HistoryEntry) error {
	stateData, err := json.Marshal(state)
	if err != nil {
		return domain.NewStorageError("commit", "dashboard_state", err)
	}
	entryData, err := json.Marshal(entry)
	if err != nil {
		return domain.NewStorageError("commit", "history_entries", err)
	}
	err = s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertDashboardSQL, dashboardRowID, string(stateData)); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, insertHistorySQL, entry.Timestamp, string(entryData))
		return err
	})
	if err != nil {
		return domain.NewStorageError("commit", "dashboard_state", err)
	}
	return nil
}

// Restore overwrites the dashboard and clears the history in one transaction.
func (s *StateStore) Restore(ctx context.Context, state domain.DashboardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return domain.NewStorageError("restore", "dashboard_state", err)
	}
	err = s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertDashboardSQL, dashboardRowID, string(data)); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM history_entries`)
		return err
	})
	if err != nil {
		return domain.NewStorageError("restore", "dashboard_state", err)
	}
	return nil
}

const upsertDashboardSQL = `INSERT INTO dashboard_state (id, data, updated_at) VALUES ($1, $2::jsonb, now())
ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`

const insertHistorySQL = `INSERT INTO history_entries (recorded_at, data) VALUES ($1, $2::jsonb)`
