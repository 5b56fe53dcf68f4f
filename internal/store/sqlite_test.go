package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteStoreMissingKey(t *testing.T) {
	st := newTestStore(t)

	data, err := st.LoadSnapshot(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSQLiteStoreRoundtrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveSnapshot(ctx, "appState", []byte(`{"teams":[]}`)))

	data, err := st.LoadSnapshot(ctx, "appState")
	require.NoError(t, err)
	assert.Equal(t, `{"teams":[]}`, string(data))
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveSnapshot(ctx, "appState", []byte("v1")))
	require.NoError(t, st.SaveSnapshot(ctx, "appState", []byte("v2")))

	data, err := st.LoadSnapshot(ctx, "appState")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	st, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.SaveSnapshot(ctx, "appState", []byte("persisted")))
	require.NoError(t, st.Close())

	reopened, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.LoadSnapshot(ctx, "appState")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(data))
}
