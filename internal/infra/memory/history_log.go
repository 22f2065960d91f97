package memory

import (
	"context"
	"sync"

	"colmeia-quiz-service/internal/domain"
)

// HistoryLog is an in-memory implementation of app.HistoryLog.
type HistoryLog struct {
	mu      sync.RWMutex
	entries []domain.HistoryEntry
}

func NewHistoryLog() *HistoryLog {
	return &HistoryLog{}
}

func (l *HistoryLog) Append(_ context.Context, entry domain.HistoryEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, cloneEntry(entry))
	return nil
}

func (l *HistoryLog) ReadAll(_ context.Context) ([]domain.HistoryEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.HistoryEntry, len(l.entries))
	for i, entry := range l.entries {
		out[i] = cloneEntry(entry)
	}
	return out, nil
}

func (l *HistoryLog) Truncate(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	return nil
}

func cloneEntry(entry domain.HistoryEntry) domain.HistoryEntry {
	if entry.CategoryResults != nil {
		results := make([]domain.CategoryResult, len(entry.CategoryResults))
		copy(results, entry.CategoryResults)
		entry.CategoryResults = results
	}
	return entry
}
