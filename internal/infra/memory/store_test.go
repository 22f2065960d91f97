package memory

import (
	"context"
	"errors"
	"testing"

	"colmeia-quiz-service/internal/domain"
)

func TestDashboardStoreRequiresSeed(t *testing.T) {
	store := NewDashboardStore()
	_, err := store.Load(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	state := domain.DashboardState{GeneralScore: 42, Badges: []domain.Badge{{ID: "b1"}}}
	if err := store.Save(context.Background(), state); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.GeneralScore != 42 || len(got.Badges) != 1 {
		t.Fatalf("unexpected state %+v", got)
	}

	got.Badges[0].CurrentLevel = 9
	again, _ := store.Load(context.Background())
	if again.Badges[0].CurrentLevel != 0 {
		t.Fatalf("store leaked internal state to caller")
	}
}

func TestHistoryLogLifecycle(t *testing.T) {
	ctx := context.Background()
	log := NewHistoryLog()

	_ = log.Append(ctx, domain.HistoryEntry{Timestamp: "t1"})
	_ = log.Append(ctx, domain.HistoryEntry{Timestamp: "t2"})

	entries, err := log.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 2 || entries[0].Timestamp != "t1" || entries[1].Timestamp != "t2" {
		t.Fatalf("expected oldest-first entries, got %+v", entries)
	}

	if err := log.Truncate(ctx); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	entries, _ = log.ReadAll(ctx)
	if len(entries) != 0 {
		t.Fatalf("expected empty history, got %d", len(entries))
	}
}

func TestStaticQuestionLoaderEmpty(t *testing.T) {
	if _, err := NewStaticQuestionLoader(nil).LoadQuestions(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHistoryLogEntriesDoNotAlias(t *testing.T) {
	ctx := context.Background()
	history := NewHistoryLog()

	entry := domain.HistoryEntry{
		Timestamp: "2026-01-01T00:00:00Z",
		FinalResult: domain.FinalResult{
			CategoryResults: []domain.CategoryResult{{Category: domain.CategorySocial, Points: 3}},
		},
	}
	if err := history.Append(ctx, entry); err != nil {
		t.Fatalf("append: %v", err)
	}
	entry.CategoryResults[0].Points = 99

	first, _ := history.ReadAll(ctx)
	first[0].CategoryResults[0].Points = 42

	second, _ := history.ReadAll(ctx)
	if got := second[0].CategoryResults[0].Points; got != 3 {
		t.Fatalf("stored entry mutated through a caller slice: points = %d", got)
	}
}
