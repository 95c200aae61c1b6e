package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, found, err := c.Get(ctx, "roles:918654062")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "roles:918654062", []byte(`{"roller":[]}`), 0))

	value, found, err := c.Get(ctx, "roles:918654062")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"roller":[]}`), value)

	require.NoError(t, c.Delete(ctx, "roles:918654062"))
	_, found, err = c.Get(ctx, "roles:918654062")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	current := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	require.NoError(t, c.Set(ctx, "roles:918654062", []byte("doc"), time.Minute))

	_, found, err := c.Get(ctx, "roles:918654062")
	require.NoError(t, err)
	assert.True(t, found)

	current = current.Add(2 * time.Minute)
	_, found, err = c.Get(ctx, "roles:918654062")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_HealthcheckAlwaysPasses(t *testing.T) {
	c := NewMemoryCache()
	msg, err := c.Healthcheck().Checker()
	assert.NoError(t, err)
	assert.Empty(t, msg)
}
