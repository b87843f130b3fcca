package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, err := c.Get(ctx, "crop:doc:1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "crop:doc:1", []byte("png"), 0))
	data, err := c.Get(ctx, "crop:doc:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	require.NoError(t, c.Delete(ctx, "crop:doc:1"))
	_, err = c.Get(ctx, "crop:doc:1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "crop:doc:1", []byte("png"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(ctx, "crop:doc:1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "crop:doc-a:1", []byte("a1"), 0))
	require.NoError(t, c.Set(ctx, "crop:doc-a:2", []byte("a2"), 0))
	require.NoError(t, c.Set(ctx, "crop:doc-b:1", []byte("b1"), 0))

	require.NoError(t, c.DeletePattern(ctx, "crop:doc-a:*"))

	_, err := c.Get(ctx, "crop:doc-a:1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "crop:doc-a:2")
	assert.ErrorIs(t, err, ErrCacheMiss)

	data, err := c.Get(ctx, "crop:doc-b:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("b1"), data)
}
