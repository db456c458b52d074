package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcatz/grid-generator/internal/grid"
)

func newTestRepo(t *testing.T) *SQLiteSnapshotRepository {
	t.Helper()
	repo, err := NewSQLiteSnapshotRepository(filepath.Join(t.TempDir(), "db", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func testSnapshot() *grid.Snapshot {
	cfg := grid.DefaultConfig()
	cfg.ColumnFr = []float64{1, 2, 1, 1}
	return &grid.Snapshot{
		Config: cfg,
		Items: []grid.Item{
			{ID: "a", Rect: grid.Rect{X: 0, Y: 0, W: 2, H: 1}, Content: "Header", Color: "#ff6f61"},
			{ID: "b", Rect: grid.Rect{X: 2, Y: 1, W: 1, H: 2}},
		},
	}
}

func TestSaveLoad(t *testing.T) {
	repo := newTestRepo(t)
	snap := testSnapshot()
	require.NoError(t, repo.Save("hero", snap))

	got, err := repo.Load("hero")
	require.NoError(t, err)
	assert.Equal(t, snap.Config, got.Config)
	assert.Equal(t, snap.Items, got.Items)
}

func TestSaveReplaces(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Save("hero", testSnapshot()))

	smaller := testSnapshot()
	smaller.Items = smaller.Items[:1]
	require.NoError(t, repo.Save("hero", smaller))

	got, err := repo.Load("hero")
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	infos, err := repo.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 1, infos[0].Items)
}

func TestSaveRejectsIllegal(t *testing.T) {
	repo := newTestRepo(t)
	snap := testSnapshot()
	snap.Items[1].Rect = grid.Rect{X: 1, Y: 0, W: 1, H: 1}
	assert.ErrorIs(t, repo.Save("bad", snap), grid.ErrCollision)
	assert.Error(t, repo.Save("  ", testSnapshot()))
	assert.Error(t, repo.Save("nil", nil))
}

func TestLoadMissing(t *testing.T) {
	_, err := newTestRepo(t).Load("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrder(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	require.NoError(t, repo.Save("first", testSnapshot()))
	require.NoError(t, repo.Save("second", testSnapshot()))

	infos, err := repo.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "second", infos[0].Name)
	assert.Equal(t, "first", infos[1].Name)
	assert.Equal(t, 4, infos[0].Columns)
	assert.Equal(t, 2, infos[0].Items)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Save("hero", testSnapshot()))
	require.NoError(t, repo.Delete("hero"))
	assert.ErrorIs(t, repo.Delete("hero"), ErrNotFound)

	infos, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.db")
	repo, err := NewSQLiteSnapshotRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Save("hero", testSnapshot()))
	require.NoError(t, repo.Close())

	repo, err = NewSQLiteSnapshotRepository(path)
	require.NoError(t, err)
	defer repo.Close()
	_, err = repo.Load("hero")
	assert.NoError(t, err)
}
