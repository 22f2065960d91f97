package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"colmeia-quiz-service/internal/domain"
)

const (
	// DashboardFile is the filename of the live dashboard document.
	DashboardFile = "dashboard_data.json"
	// HistoryFile is the filename of the history document.
	HistoryFile = "history.json"
)

// DashboardPath returns the dashboard document path inside dataDir.
func DashboardPath(dataDir string) string {
	return filepath.Join(dataDir, DashboardFile)
}

// HistoryPath returns the history document path inside dataDir.
func HistoryPath(dataDir string) string {
	return filepath.Join(dataDir, HistoryFile)
}

// DashboardStore keeps the dashboard as a single JSON document on disk.
type DashboardStore struct {
	path string
}

func NewDashboardStore(path string) *DashboardStore {
	return &DashboardStore{path: path}
}

// Load reads the dashboard. A missing or corrupt document is an error, never a default.
func (s *DashboardStore) Load(_ context.Context) (domain.DashboardState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DashboardState{}, domain.NewStorageError("load", s.path, domain.ErrNotFound)
		}
		return domain.DashboardState{}, domain.NewStorageError("load", s.path, err)
	}

	var state domain.DashboardState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.DashboardState{}, domain.NewStorageError("load", s.path, fmt.Errorf("%w: %v", domain.ErrMalformedData, err))
	}
	return state, nil
}

// Save atomically overwrites the dashboard document.
func (s *DashboardStore) Save(_ context.Context, state domain.DashboardState) error {
	if err := writeJSONAtomic(s.path, state); err != nil {
		return domain.NewStorageError("save", s.path, err)
	}
	return nil
}
