package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundtrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	data, err := st.LoadSnapshot(ctx, "appState")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, st.SaveSnapshot(ctx, "appState", []byte("state")))

	data, err = st.LoadSnapshot(ctx, "appState")
	require.NoError(t, err)
	assert.Equal(t, "state", string(data))
}

func TestMemoryStoreCopiesData(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	original := []byte("abc")
	require.NoError(t, st.SaveSnapshot(ctx, "k", original))
	original[0] = 'x'

	data, err := st.LoadSnapshot(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	// Mutating the loaded copy must not affect the stored value either.
	data[0] = 'y'
	again, err := st.LoadSnapshot(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
