package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "history.json"))
}

func TestStore_AppendAndRecent(t *testing.T) {
	s := tempStore(t)
	for i := 0; i < 7; i++ {
		s.Append(Entry{IterationID: string(rune('a' + i)), Outcome: OutcomeSuccess})
	}

	assert.Equal(t, 7, s.Len())

	recent := s.Recent(5)
	require.Len(t, recent, 5)
	assert.Equal(t, "c", recent[0].IterationID)
	assert.Equal(t, "g", recent[4].IterationID)
}

func TestStore_RecentShorterThanLimit(t *testing.T) {
	s := tempStore(t)
	s.Append(Entry{IterationID: "only"})

	recent := s.Recent(5)
	require.Len(t, recent, 1)
	assert.Equal(t, "only", recent[0].IterationID)
}

func TestStore_PersistWritesValidJSONArray(t *testing.T) {
	s := tempStore(t)
	s.Append(Entry{
		IterationID: "iter-1",
		Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Target:      "test-bucket",
		FaultType:   "make_storage_public",
		Outcome:     OutcomeSuccessSimulated,
		TestPassed:  true,
	})
	require.NoError(t, s.Persist())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var entries []Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "iter-1", entries[0].IterationID)
	assert.True(t, entries[0].TestPassed)
}

func TestStore_PersistEmptyHistory(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Persist())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestStore_PersistRewritesFullHistory(t *testing.T) {
	s := tempStore(t)
	s.Append(Entry{IterationID: "a"})
	require.NoError(t, s.Persist())
	s.Append(Entry{IterationID: "b"})
	require.NoError(t, s.Persist())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var entries []Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Len(t, entries, 2)
}

func TestNewStore_LoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	first := NewStore(path)
	first.Append(Entry{IterationID: "persisted", Outcome: OutcomeSuccess})
	require.NoError(t, first.Persist())

	second := NewStore(path)
	assert.Equal(t, 1, second.Len())
	assert.Equal(t, "persisted", second.Entries()[0].IterationID)
}

func TestNewStore_MalformedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	s := NewStore(path)
	assert.Equal(t, 0, s.Len())
}

func TestStore_PersistFailureDoesNotLoseMemory(t *testing.T) {
	// Point the store at a path whose parent is a file, so writes fail.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := NewStore(filepath.Join(blocker, "history.json"))
	s.Append(Entry{IterationID: "kept"})

	err := s.Persist()
	require.Error(t, err)
	assert.Equal(t, 1, s.Len())
}
