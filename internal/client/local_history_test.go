package client

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *LocalHistory {
	t.Helper()
	return NewLocalHistory(filepath.Join(t.TempDir(), "nested", "history.json"))
}

func TestLocalHistoryEmpty(t *testing.T) {
	h := newLocal(t)
	entries, err := h.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
	require.NoError(t, h.Clear())
}

func TestLocalHistoryNewestFirstAndBounded(t *testing.T) {
	h := newLocal(t)
	for i := 0; i < 12; i++ {
		added, err := h.Add("", summary(i, "Jane"))
		require.NoError(t, err)
		assert.True(t, added)
	}

	entries, err := h.List()
	require.NoError(t, err)
	require.Len(t, entries, MaxLocalEntries)
	assert.Equal(t, 11, entries[0].Score)
	assert.Equal(t, 2, entries[len(entries)-1].Score)
	for _, e := range entries {
		assert.True(t, strings.HasPrefix(e.ID, "local-"))
		assert.False(t, e.Recorded)
	}
}

func TestLocalHistorySkipsDuplicateOfNewest(t *testing.T) {
	h := newLocal(t)
	added, err := h.Add("id-1", summary(80, "Jane"))
	require.NoError(t, err)
	require.True(t, added)

	added, err = h.Add("id-2", summary(80, "Jane"))
	require.NoError(t, err)
	assert.False(t, added)

	added, err = h.Add("id-3", summary(80, ""))
	require.NoError(t, err)
	assert.True(t, added)

	entries, err := h.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Unknown", entries[0].Name)
	assert.Equal(t, "id-1", entries[1].ID)
	assert.True(t, entries[1].Recorded)
}

func TestLocalHistoryGetAndClear(t *testing.T) {
	h := newLocal(t)
	_, err := h.Add("id-1", summary(70, "Jane"))
	require.NoError(t, err)

	e, ok, err := h.Get("id-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 70, e.Result.OverallScore)

	_, ok, err = h.Get("nope")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, h.Clear())
	entries, err := h.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalHistoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewLocalHistory(path).List()
	assert.Error(t, err)
}

func TestPreviewTruncates(t *testing.T) {
	assert.Equal(t, "short", preview("short"))
	long := strings.Repeat("é", 150)
	assert.Equal(t, strings.Repeat("é", 100)+"...", preview(long))
}

func TestParseHistoryMode(t *testing.T) {
	m, err := ParseHistoryMode("local")
	require.NoError(t, err)
	assert.Equal(t, HistoryModeLocal, m)

	_, err = ParseHistoryMode("cloud")
	assert.Error(t, err)
}
