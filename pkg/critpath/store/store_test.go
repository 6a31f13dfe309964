package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/critpath/pkg/critpath"
	"github.com/randalmurphal/critpath/pkg/critpath/config"
	"github.com/randalmurphal/critpath/pkg/critpath/label"
	"github.com/randalmurphal/critpath/pkg/critpath/store"
)

func sampleInfo(backend string, durations ...time.Duration) *critpath.BuildInfo {
	info := &critpath.BuildInfo{Backend: backend, NumNodes: 10, NumEdges: 12}
	for i, d := range durations {
		key := critpath.ActionKey{Owner: label.MustParse("root//lib:core"), Index: uint32(i)}
		info.CriticalPath = append(info.CriticalPath, critpath.CriticalPathEntry{
			ActionName: fmt.Sprintf("root//lib:core step%d", i),
			ActionKey:  &key,
			Duration:   d,
			Category:   "step",
		})
	}
	return info
}

// stores returns each implementation under test.
func stores(t *testing.T) map[string]store.Store {
	t.Helper()
	sqliteStore, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "summaries.db"))
	require.NoError(t, err)
	memSQLite, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)

	all := map[string]store.Store{
		"memory":        store.NewMemoryStore(),
		"sqlite":        sqliteStore,
		"sqlite-memory": memSQLite,
	}
	t.Cleanup(func() {
		for _, s := range all {
			_ = s.Close()
		}
	})
	return all
}

func TestStore_SaveLoad(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleInfo(critpath.BackendStreaming, 5*time.Millisecond, 7*time.Millisecond)
			require.NoError(t, s.Save("b-1", want))

			got, err := s.Load("b-1")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestStore_LoadMissing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load("nope")
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestStore_SaveOverwritesAndReorders(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save("a", sampleInfo(critpath.BackendStreaming, time.Millisecond)))
			require.NoError(t, s.Save("b", sampleInfo(critpath.BackendStreaming, time.Millisecond)))
			require.NoError(t, s.Save("a", sampleInfo(critpath.BackendLongestPath, 2*time.Millisecond, 3*time.Millisecond)))

			list, err := s.List()
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "b", list[0].BuildID)
			assert.Equal(t, "a", list[1].BuildID)

			a := list[1]
			assert.Equal(t, critpath.BackendLongestPath, a.Backend)
			assert.Equal(t, 2, a.PathLen)
			assert.Equal(t, 5*time.Millisecond, a.CriticalPath)
			assert.Equal(t, uint64(10), a.NumNodes)
			assert.Equal(t, uint64(12), a.NumEdges)
			assert.False(t, a.RecordedAt.IsZero())
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save("a", sampleInfo(critpath.BackendStreaming)))
			require.NoError(t, s.Delete("a"))
			require.NoError(t, s.Delete("a"))

			_, err := s.Load("a")
			assert.ErrorIs(t, err, store.ErrNotFound)
			list, err := s.List()
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestStore_Closed(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Close())
			require.NoError(t, s.Close())

			assert.ErrorIs(t, s.Save("a", sampleInfo(critpath.BackendStreaming)), store.ErrStoreClosed)
			_, err := s.Load("a")
			assert.ErrorIs(t, err, store.ErrStoreClosed)
			_, err = s.List()
			assert.ErrorIs(t, err, store.ErrStoreClosed)
			assert.ErrorIs(t, s.Delete("a"), store.ErrStoreClosed)
		})
	}
}

func TestStore_Concurrent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			const writers = 20
			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					id := fmt.Sprintf("b-%d", i)
					assert.NoError(t, s.Save(id, sampleInfo(critpath.BackendStreaming, time.Duration(i)*time.Millisecond)))
					_, err := s.Load(id)
					assert.NoError(t, err)
				}(i)
			}
			wg.Wait()

			list, err := s.List()
			require.NoError(t, err)
			assert.Len(t, list, writers)
		})
	}
}

func TestSQLiteStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	first, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Save("b-1", sampleInfo(critpath.BackendStreaming, time.Second)))
	require.NoError(t, first.Close())

	second, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Load("b-1")
	require.NoError(t, err)
	assert.Equal(t, time.Second, got.TotalDuration())
}

func TestSQLiteStore_ListRejectsBadTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.db")

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Save("b-1", sampleInfo(critpath.BackendStreaming, time.Second)))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`UPDATE build_summaries SET recorded_at = 'yesterday' WHERE build_id = 'b-1'`)
	require.NoError(t, err)

	_, err = s.List()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recorded_at")
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := store.NewSQLiteStore("/nonexistent/path/db.sqlite")
	assert.Error(t, err)
}

func TestNewSink_PersistsScopeSummary(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	owner := label.MustParse("root//svc:api")
	_, err := critpath.Scope(context.Background(), config.Settings{}, func(_ context.Context, sender critpath.Sender) (struct{}, error) {
		sender.Signal(critpath.ActionExecuted{
			Action:   &critpath.Action{Key: critpath.ActionKey{Owner: owner}, Owner: owner, Category: "compile"},
			Duration: 3 * time.Millisecond,
		})
		return struct{}{}, nil
	}, critpath.WithSink(store.NewSink(s)), critpath.WithBuildID("b-sink"))
	require.NoError(t, err)

	got, err := s.Load("b-sink")
	require.NoError(t, err)
	require.Len(t, got.CriticalPath, 1)
	assert.Equal(t, "root//svc:api compile", got.CriticalPath[0].ActionName)
}

func TestNewSink_WrapsStoreError(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Close())

	err := store.NewSink(s).Emit(context.Background(), "b", sampleInfo(critpath.BackendStreaming))
	assert.ErrorIs(t, err, store.ErrStoreClosed)
	assert.Contains(t, err.Error(), "build b")
}
