package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"colmeia-quiz-service/internal/domain"
	"colmeia-quiz-service/internal/seed"
)

func TestDashboardStoreMissingIsNotFound(t *testing.T) {
	store := NewDashboardStore(DashboardPath(t.TempDir()))
	_, err := store.Load(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	var storageErr *domain.StorageError
	if !errors.As(err, &storageErr) || storageErr.Op != "load" {
		t.Fatalf("expected storage error, got %T", err)
	}
}

func TestDashboardStoreCorruptIsMalformed(t *testing.T) {
	path := DashboardPath(t.TempDir())
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewDashboardStore(path).Load(context.Background())
	if !errors.Is(err, domain.ErrMalformedData) {
		t.Fatalf("expected malformed data, got %v", err)
	}
}

func TestDashboardStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewDashboardStore(DashboardPath(dir))

	initial, err := seed.InitialDashboard()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.Save(ctx, initial); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(loaded, initial) {
		t.Fatalf("round trip mismatch")
	}

	// save(load()) is a no-op.
	if err := store.Save(ctx, loaded); err != nil {
		t.Fatalf("save again: %v", err)
	}
	again, _ := store.Load(ctx)
	if !reflect.DeepEqual(again, loaded) {
		t.Fatalf("second round trip mismatch")
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	dotLeftovers, _ := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	if len(leftovers)+len(dotLeftovers) != 0 {
		t.Fatalf("temp files left behind: %v %v", leftovers, dotLeftovers)
	}
}

func TestHistoryLogMissingOrCorruptReadsEmpty(t *testing.T) {
	ctx := context.Background()
	path := HistoryPath(t.TempDir())
	history := NewHistoryLog(path)

	entries, err := history.ReadAll(ctx)
	if err != nil || entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty history, got %v, %v", entries, err)
	}

	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err = history.ReadAll(ctx)
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected empty history for corrupt file, got %v, %v", entries, err)
	}
}

func TestHistoryLogAppendKeepsOrder(t *testing.T) {
	ctx := context.Background()
	history := NewHistoryLog(HistoryPath(t.TempDir()))

	for _, ts := range []string{"2026-01-01T00:00:00Z", "2026-01-02T00:00:00Z", "2026-01-03T00:00:00Z"} {
		entry := domain.HistoryEntry{
			Timestamp: ts,
			FinalResult: domain.FinalResult{
				TotalPoints:     8,
				CategoryResults: []domain.CategoryResult{{Category: domain.CategoryFinancial, Points: 8, Percentage: 8.0 / 35 * 100}},
				RiskLevel:       domain.RiskHigh,
			},
		}
		if err := history.Append(ctx, entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, _ := history.ReadAll(ctx)
	if len(entries) != 3 || entries[0].Timestamp != "2026-01-01T00:00:00Z" || entries[2].Timestamp != "2026-01-03T00:00:00Z" {
		t.Fatalf("unexpected history %+v", entries)
	}
	if entries[1].TotalPoints != 8 || entries[1].CategoryResults[0].Category != domain.CategoryFinancial {
		t.Fatalf("entry fields not flattened/restored: %+v", entries[1])
	}

	if err := history.Truncate(ctx); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	entries, _ = history.ReadAll(ctx)
	if len(entries) != 0 {
		t.Fatalf("expected empty history after truncate")
	}
}

func TestQuestionLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.json")
	if err := os.WriteFile(path, seed.QuestionsJSON(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	questions, err := NewQuestionLoader(path).LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) == 0 {
		t.Fatalf("expected questions")
	}

	_, err = NewQuestionLoader(filepath.Join(dir, "missing.json")).LoadQuestions(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWriteQuestionsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "questions.json")
	questions, err := seed.Questions()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := WriteQuestions(path, questions); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded, err := NewQuestionLoader(path).LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(loaded, questions) {
		t.Fatalf("question bank changed on round trip")
	}
}
