package app

import (
	"context"
	"log"
	"sync"
	"time"

	"colmeia-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// DashboardStore abstracts where the shared dashboard document lives (file, Redis, SQL, memory).
type DashboardStore interface {
	Load(ctx context.Context) (domain.DashboardState, error)
	Save(ctx context.Context, state domain.DashboardState) error
}

// HistoryLog is the append-only record of scored submissions.
type HistoryLog interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
	// ReadAll returns entries oldest-first; a missing or unreadable log yields an empty slice.
	ReadAll(ctx context.Context) ([]domain.HistoryEntry, error)
	Truncate(ctx context.Context) error
}

// StateCommitter is implemented by backends that persist the dashboard and the history
// in a single transaction.
type StateCommitter interface {
	Commit(ctx context.Context, state domain.DashboardState, entry domain.HistoryEntry) error
	Restore(ctx context.Context, state domain.DashboardState) error
}

// QuizService contains the quiz use cases.
type QuizService struct {
	bank      *QuestionBank
	rules     *RuleEngine
	dashboard DashboardStore
	history   HistoryLog
	initial   domain.DashboardState
	now       func() time.Time
	feed      *Broadcaster

	// mu serializes every read-modify-write of the dashboard and history.
	mu sync.Mutex
	sf singleflight.Group
}

func NewQuizService(bank *QuestionBank, rules *RuleEngine, dashboard DashboardStore, history HistoryLog, initial domain.DashboardState) *QuizService {
	return NewQuizServiceWithClock(bank, rules, dashboard, history, initial, time.Now)
}

// NewQuizServiceWithClock allows deterministic history timestamps in tests.
func NewQuizServiceWithClock(bank *QuestionBank, rules *RuleEngine, dashboard DashboardStore, history HistoryLog, initial domain.DashboardState, now func() time.Time) *QuizService {
	return &QuizService{
		bank:      bank,
		rules:     rules,
		dashboard: dashboard,
		history:   history,
		initial:   initial.Clone(),
		now:       now,
		feed:      NewBroadcaster(),
	}
}

// Questions lists the question bank without weights.
func (s *QuizService) Questions() []domain.ClientQuestion {
	return s.bank.ListForClient()
}

// Submit scores answers, applies them to the dashboard and records the result in history.
// A storage failure aborts the submission before anything half-applied is written.
func (s *QuizService) Submit(ctx context.Context, answers []domain.UserAnswer) (domain.FinalResult, error) {
	result := ComputeResult(answers, s.bank)

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.dashboard.Load(ctx)
	if err != nil {
		return domain.FinalResult{}, err
	}
	next := s.rules.Apply(result, answers, current)
	entry := domain.HistoryEntry{
		Timestamp:   s.now().UTC().Format(time.RFC3339Nano),
		FinalResult: result,
	}

	if committer, ok := s.dashboard.(StateCommitter); ok {
		if err := committer.Commit(ctx, next, entry); err != nil {
			return domain.FinalResult{}, err
		}
	} else {
		if err := s.dashboard.Save(ctx, next); err != nil {
			return domain.FinalResult{}, err
		}
		if err := s.history.Append(ctx, entry); err != nil {
			return domain.FinalResult{}, err
		}
	}

	log.Printf("INFO: [QuizService] submission scored: total=%d score=%.2f risk=%s", result.TotalPoints, result.ScorePercentage, result.RiskLevel)
	s.feed.Publish(next)
	return result, nil
}

// Dashboard returns the current dashboard. Concurrent callers share one load.
func (s *QuizService) Dashboard(ctx context.Context) (domain.DashboardState, error) {
	v, err, _ := s.sf.Do("dashboard", func() (interface{}, error) {
		return s.dashboard.Load(ctx)
	})
	if err != nil {
		return domain.DashboardState{}, err
	}
	return v.(domain.DashboardState).Clone(), nil
}

// History returns every recorded submission, oldest first.
func (s *QuizService) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries, err := s.history.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}

// Reset restores the initial dashboard snapshot and clears the history.
func (s *QuizService) Reset(ctx context.Context) (domain.DashboardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.initial.Clone()
	if committer, ok := s.dashboard.(StateCommitter); ok {
		if err := committer.Restore(ctx, state); err != nil {
			return domain.DashboardState{}, err
		}
	} else {
		if err := s.dashboard.Save(ctx, state); err != nil {
			return domain.DashboardState{}, err
		}
		if err := s.history.Truncate(ctx); err != nil {
			return domain.DashboardState{}, err
		}
	}

	log.Printf("INFO: [QuizService] dashboard reset to initial snapshot")
	s.feed.Publish(state)
	return state, nil
}

// Subscribe returns a channel that receives the dashboard after every change.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(ctx context.Context) (<-chan domain.DashboardState, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.dashboard.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.feed.Subscribe(current)
	return ch, cancel, nil
}
