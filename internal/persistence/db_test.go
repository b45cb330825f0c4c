package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hamlet/internal/engine"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "chronicle.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndReadEvents(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.SaveEvents(nil))
	require.NoError(t, db.SaveEvents([]engine.Event{
		{Tick: 100, Category: "build", Description: "Erik built a house at (3,4)"},
		{Tick: 200, Category: "trade", Description: "Iris bought food from Erik"},
		{Tick: 300, Category: "trade", Description: "Erik bought seed from Iris"},
	}))

	recent, err := db.RecentEvents(2, "")
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, uint64(300), recent[0].Tick)
	assert.Equal(t, "Iris bought food from Erik", recent[1].Description)

	builds, err := db.RecentEvents(10, "build")
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.Equal(t, "build", builds[0].Category)

	counts, err := db.EventCounts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"build": 1, "trade": 2}, counts)
}

func TestMeta(t *testing.T) {
	db := openTemp(t)
	_, err := db.GetMeta("seed")
	require.ErrorIs(t, err, ErrNoMeta)

	require.NoError(t, db.SaveMeta("seed", "42"))
	require.NoError(t, db.SaveMeta("seed", "43"))
	v, err := db.GetMeta("seed")
	require.NoError(t, err)
	assert.Equal(t, "43", v)
}

func TestFlushRecordsTick(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.Flush(5000, []engine.Event{{Tick: 4950, Category: "death", Description: "Una Voss has died"}}))

	v, err := db.GetMeta("last_tick")
	require.NoError(t, err)
	assert.Equal(t, "5000", v)
	counts, err := db.EventCounts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts["death"])
}

func TestReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronicle.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.SaveEvents([]engine.Event{{Tick: 1, Category: "crime", Description: "x"}}))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	recent, err := db.RecentEvents(10, "")
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
