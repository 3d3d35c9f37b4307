package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndList(t *testing.T) {
	store := openTestStore(t)

	started := time.Date(2023, 9, 1, 6, 0, 0, 0, time.UTC)
	warnings := []Warning{
		{Kind: PrunedFolder, Subject: "2023 Archive", Detail: "archival folder skipped", Count: 14},
		{Kind: UnresolvedStyle, Subject: "front-map", Detail: "chain too deep"},
	}

	runID, err := store.RecordRun(RunSummary{
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Source:     "assets/doc.kml",
		Features:   120,
	}, warnings)
	require.NoError(t, err)
	require.Positive(t, runID)

	runs, err := store.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, runID, runs[0].ID)
	require.Equal(t, "assets/doc.kml", runs[0].Source)
	require.Equal(t, 120, runs[0].Features)
	require.Equal(t, 2, runs[0].Warnings)
	require.True(t, runs[0].StartedAt.Equal(started))
}

func TestStore_RunWarnings(t *testing.T) {
	store := openTestStore(t)

	warnings := []Warning{
		{Kind: PrunedFolder, Subject: "Archive", Count: 5},
		{Kind: MalformedGeometry, Subject: "Front line", Detail: "bad tuple"},
	}
	runID, err := store.RecordRun(RunSummary{
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
		Source:     "doc.kml",
	}, warnings)
	require.NoError(t, err)

	got, err := store.RunWarnings(runID)
	require.NoError(t, err)
	require.Equal(t, warnings, got, "warnings round-trip in insertion order")
}

func TestStore_RecentRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.RecordRun(RunSummary{
			StartedAt:  time.Now(),
			FinishedAt: time.Now(),
			Source:     "doc.kml",
			Features:   i,
		}, nil)
		require.NoError(t, err)
	}

	runs, err := store.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, 2, runs[0].Features)
	require.Equal(t, 1, runs[1].Features)
}

func TestStore_NoRuns(t *testing.T) {
	store := openTestStore(t)

	runs, err := store.RecentRuns(5)
	require.NoError(t, err)
	require.Empty(t, runs)

	warnings, err := store.RunWarnings(42)
	require.NoError(t, err)
	require.Empty(t, warnings)
}
