package memory

import (
	"context"
	"sync"

	"colmeia-quiz-service/internal/domain"
)

// DashboardStore is an in-memory implementation of app.DashboardStore.
type DashboardStore struct {
	mu     sync.RWMutex
	state  domain.DashboardState
	seeded bool
}

// NewDashboardStore returns an empty store; Load fails until the first Save.
func NewDashboardStore() *DashboardStore {
	return &DashboardStore{}
}

// NewSeededDashboardStore returns a store holding a copy of state.
func NewSeededDashboardStore(state domain.DashboardState) *DashboardStore {
	return &DashboardStore{state: state.Clone(), seeded: true}
}

func (s *DashboardStore) Load(_ context.Context) (domain.DashboardState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.seeded {
		return domain.DashboardState{}, domain.NewStorageError("load", "dashboard", domain.ErrNotFound)
	}
	return s.state.Clone(), nil
}

func (s *DashboardStore) Save(_ context.Context, state domain.DashboardState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	s.seeded = true
	return nil
}
