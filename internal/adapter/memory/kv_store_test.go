package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

func TestKVStore(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore()
	defer store.Close()

	_, err := store.Get(ctx, "menu")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	value := []byte(`[1]`)
	require.NoError(t, store.Set(ctx, "menu", value))
	value[0] = 'x'

	got, err := store.Get(ctx, "menu")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), got, "stored value must not alias the caller's slice")

	require.NoError(t, store.Set(ctx, "menu", []byte(`[2]`)))
	got, err = store.Get(ctx, "menu")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[2]`), got)
}

func TestKVStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewKVStore()
	assert.ErrorIs(t, store.Set(ctx, "k", []byte("v")), context.Canceled)
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
