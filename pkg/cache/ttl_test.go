package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTTLCache_Expiration(t *testing.T) {
	now := time.Now()
	c := NewTTLCache[string](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("token", "user1")
	v, ok := c.Get("token")
	require.True(t, ok)
	require.Equal(t, "user1", v)

	now = now.Add(time.Minute)
	_, ok = c.Get("token")
	require.False(t, ok)

	// Still in memory until reaped.
	require.Equal(t, 1, c.Len())
	require.Equal(t, 1, c.Reap())
	require.Equal(t, 0, c.Len())
}

func TestTTLCache_Delete(t *testing.T) {
	c := NewTTLCache[int](time.Minute)
	c.Set("a", 1)
	c.Delete("a")

	_, ok := c.Get("a")
	require.False(t, ok)
}

func TestTTLCache_StartReaper(t *testing.T) {
	c := NewTTLCache[int](time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.StartReaper(ctx, 5*time.Millisecond)

	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}
