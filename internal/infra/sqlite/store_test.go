package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"colmeia-quiz-service/internal/domain"
	"colmeia-quiz-service/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "colmeia.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadMissingDashboard(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoadCorruptDashboard(t *testing.T) {
	store := openTestStore(t)
	_, err := store.db.Exec(`INSERT INTO dashboard_state (id, data) VALUES (1, '{oops')`)
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedData)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	initial, err := seed.InitialDashboard()
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, initial))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, initial, loaded)

	initial.GeneralScore = 12.5
	require.NoError(t, store.Save(ctx, initial))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12.5, loaded.GeneralScore)
}

func TestCommitAndRestore(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	initial, err := seed.InitialDashboard()
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, initial))

	updated := initial.Clone()
	updated.RecommendedDecision = string(domain.DecisionApprove)
	for _, ts := range []string{"2026-01-01T00:00:00Z", "2026-01-02T00:00:00Z"} {
		entry := domain.HistoryEntry{Timestamp: ts, FinalResult: domain.FinalResult{CategoryResults: []domain.CategoryResult{}}}
		require.NoError(t, store.Commit(ctx, updated, entry))
	}

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(domain.DecisionApprove), loaded.RecommendedDecision)

	entries, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2026-01-01T00:00:00Z", entries[0].Timestamp)
	assert.Equal(t, "2026-01-02T00:00:00Z", entries[1].Timestamp)

	require.NoError(t, store.Restore(ctx, initial))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, initial, loaded)
	entries, err = store.ReadAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestReadAllSkipsUnreadableRows(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Append(ctx, domain.HistoryEntry{Timestamp: "a"}))
	_, err := store.db.Exec(`INSERT INTO history_entries (recorded_at, data) VALUES ('b', 'nope')`)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, domain.HistoryEntry{Timestamp: "c"}))

	entries, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Timestamp)
	assert.Equal(t, "c", entries[1].Timestamp)

	require.NoError(t, store.Truncate(ctx))
	entries, _ = store.ReadAll(ctx)
	assert.Empty(t, entries)
}
