package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"colmeia-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// StateStore keeps the dashboard and the history in Redis.
// Layout:
//
//	SET   {prefix}:dashboard  <DashboardState JSON>
//	RPUSH {prefix}:history    <HistoryEntry JSON> ...
//
// Writes that touch both keys run inside MULTI/EXEC.
type StateStore struct {
	client *redis.Client
	prefix string
}

func NewStateStore(client *redis.Client, prefix string) *StateStore {
	if prefix == "" {
		prefix = "colmeia"
	}
	return &StateStore{client: client, prefix: prefix}
}

func (s *StateStore) Load(ctx context.Context) (domain.DashboardState, error) {
	raw, err := s.client.Get(ctx, s.dashboardKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.DashboardState{}, domain.NewStorageError("load", s.dashboardKey(), domain.ErrNotFound)
	}
	if err != nil {
		return domain.DashboardState{}, domain.NewStorageError("load", s.dashboardKey(), err)
	}
	var state domain.DashboardState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.DashboardState{}, domain.NewStorageError("load", s.dashboardKey(), fmt.Errorf("%w: %v", domain.ErrMalformedData, err))
	}
	return state, nil
}

func (s *StateStore) Save(ctx context.Context, state domain.DashboardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return domain.NewStorageError("save", s.dashboardKey(), err)
	}
	if err := s.client.Set(ctx, s.dashboardKey(), data, 0).Err(); err != nil {
		return domain.NewStorageError("save", s.dashboardKey(), err)
	}
	return nil
}

func (s *StateStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return domain.NewStorageError("append", s.historyKey(), err)
	}
	if err := s.client.RPush(ctx, s.historyKey(), data).Err(); err != nil {
		return domain.NewStorageError("append", s.historyKey(), err)
	}
	return nil
}

// ReadAll returns history oldest-first; unreadable entries are skipped.
func (s *StateStore) ReadAll(ctx context.Context) ([]domain.HistoryEntry, error) {
	raws, err := s.client.LRange(ctx, s.historyKey(), 0, -1).Result()
	if err != nil {
		log.Printf("WARN: [RedisStateStore] reading history: %v", err)
		return []domain.HistoryEntry{}, nil
	}
	entries := make([]domain.HistoryEntry, 0, len(raws))
	for _, raw := range raws {
		var entry domain.HistoryEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Printf("WARN: [RedisStateStore] skipping unreadable history entry: %v", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *StateStore) Truncate(ctx context.Context) error {
	if err := s.client.Del(ctx, s.historyKey()).Err(); err != nil {
		return domain.NewStorageError("truncate", s.historyKey(), err)
	}
	return nil
}

// Commit saves the dashboard and appends the entry in one transaction.
func (s *StateStore) Commit(ctx context.Context, state domain.DashboardState, entry domain.HistoryEntry) error {
	stateData, err := json.Marshal(state)
	if err != nil {
		return domain.NewStorageError("commit", s.dashboardKey(), err)
	}
	entryData, err := json.Marshal(entry)
	if err != nil {
		return domain.NewStorageError("commit", s.historyKey(), err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.dashboardKey(), stateData, 0)
		pipe.RPush(ctx, s.historyKey(), entryData)
		return nil
	})
	if err != nil {
		return domain.NewStorageError("commit", s.prefix, err)
	}
	return nil
}

// Restore overwrites the dashboard and clears the history in one transaction.
func (s *StateStore) Restore(ctx context.Context, state domain.DashboardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return domain.NewStorageError("restore", s.dashboardKey(), err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.dashboardKey(), data, 0)
		pipe.Del(ctx, s.historyKey())
		return nil
	})
	if err != nil {
		return domain.NewStorageError("restore", s.prefix, err)
	}
	return nil
}

func (s *StateStore) dashboardKey() string {
	return s.prefix + ":dashboard"
}

func (s *StateStore) historyKey() string {
	return s.prefix + ":history"
}
