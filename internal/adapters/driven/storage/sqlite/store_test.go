package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

// ==================== Store Creation and Migrations ====================

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "model.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_AppliesAllMigrations(t *testing.T) {
	store := setupTestStore(t)

	var version, count int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version), COUNT(*) FROM schema_migrations").Scan(&version, &count))
	assert.Equal(t, 2, version)
	assert.Equal(t, 2, count)
}

func TestNewStore_ReopenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	store1, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store1.Close())

	store2, err := NewStore(dir)
	require.NoError(t, err)
	defer store2.Close()

	els, err := store2.HostDocument().Elements(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, els, len(domain.DefaultCatalog()))
}

func TestStore_Migrate_SkipsAppliedAndUnnumbered(t *testing.T) {
	store := setupTestStore(t)

	fsys := fstest.MapFS{
		"001_host.up.sql":    {Data: []byte("this would fail if run")},
		"003_extra.up.sql":   {Data: []byte("CREATE TABLE extra (id INTEGER PRIMARY KEY);")},
		"003_extra.down.sql": {Data: []byte("DROP TABLE extra;")},
		"notes.up.sql":       {Data: []byte("garbage")},
	}

	require.NoError(t, store.migrate(fsys))

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 3, version)
}

func TestStore_Migrate_FailureIsRolledBack(t *testing.T) {
	store := setupTestStore(t)

	fsys := fstest.MapFS{
		"003_broken.up.sql": {Data: []byte("CREATE TABLE ok_table (id INTEGER); NOT SQL;")},
	}

	require.Error(t, store.migrate(fsys))

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 2, version)
}

func TestStore_HostDocument_IsShared(t *testing.T) {
	store := setupTestStore(t)

	assert.Same(t, store.HostDocument(), store.HostDocument())
}

// ==================== Import History ====================

func TestHistoryStore_SaveGetRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	history := store.ImportHistoryStore()
	ctx := context.Background()
	started := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	record := domain.ImportRecord{
		ID:         "11111111-2222-3333-4444-555555555555",
		Source:     domain.SourceService,
		Label:      "Modern, 120 m², 3 bed, 2 bath",
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Status:     domain.ImportFailed,
		Phase:      domain.PhaseWalls,
		Error:      "build failed in walls phase at item 0",
		Planned:    domain.Counts{Levels: 1, Walls: 4, Rooms: 2, Openings: 3},
	}
	require.NoError(t, history.Save(ctx, record))

	got, err := history.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Source, got.Source)
	assert.Equal(t, record.Label, got.Label)
	assert.True(t, record.StartedAt.Equal(got.StartedAt))
	assert.True(t, record.FinishedAt.Equal(got.FinishedAt))
	assert.Equal(t, record.Status, got.Status)
	assert.Equal(t, record.Phase, got.Phase)
	assert.Equal(t, record.Error, got.Error)
	assert.Equal(t, record.Planned, got.Planned)
	assert.Equal(t, domain.Counts{}, got.Created)
}

func TestHistoryStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.ImportHistoryStore().Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryStore_Save_Upserts(t *testing.T) {
	store := setupTestStore(t)
	history := store.ImportHistoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, history.Save(ctx, domain.ImportRecord{ID: "a", Source: domain.SourceFile, StartedAt: now, Status: domain.ImportFailed}))
	require.NoError(t, history.Save(ctx, domain.ImportRecord{ID: "a", Source: domain.SourceFile, StartedAt: now, Status: domain.ImportSucceeded}))

	all, err := history.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.ImportSucceeded, all[0].Status)
	assert.True(t, all[0].FinishedAt.IsZero())
}

func TestHistoryStore_List_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	history := store.ImportHistoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, history.Save(ctx, domain.ImportRecord{
			ID:        id,
			Source:    domain.SourceInline,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			Status:    domain.ImportSucceeded,
		}))
	}

	all, err := history.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].ID)
	assert.Equal(t, "first", all[2].ID)

	limited, err := history.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "third", limited[0].ID)
}
