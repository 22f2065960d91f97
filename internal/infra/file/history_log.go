package file

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"sync"

	"colmeia-quiz-service/internal/domain"
)

// HistoryLog stores every entry in one JSON array, rewritten atomically on append.
type HistoryLog struct {
	path string
	mu   sync.Mutex
}

func NewHistoryLog(path string) *HistoryLog {
	return &HistoryLog{path: path}
}

func (l *HistoryLog) Append(_ context.Context, entry domain.HistoryEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.read()
	entries = append(entries, entry)
	if err := writeJSONAtomic(l.path, entries); err != nil {
		return domain.NewStorageError("append", l.path, err)
	}
	return nil
}

// ReadAll is best-effort: a missing or unparsable document reads as empty.
func (l *HistoryLog) ReadAll(_ context.Context) ([]domain.HistoryEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read(), nil
}

func (l *HistoryLog) Truncate(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := writeJSONAtomic(l.path, []domain.HistoryEntry{}); err != nil {
		return domain.NewStorageError("truncate", l.path, err)
	}
	return nil
}

func (l *HistoryLog) read() []domain.HistoryEntry {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: [HistoryLog] reading %s: %v", l.path, err)
		}
		return []domain.HistoryEntry{}
	}
	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("WARN: [HistoryLog] %s is not a valid history document, treating as empty: %v", l.path, err)
		return []domain.HistoryEntry{}
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries
}
