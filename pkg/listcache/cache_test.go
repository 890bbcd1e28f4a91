package listcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGet(t *testing.T) {
	cache := NewMemory(time.Minute)

	cache.Set(t.Context(), "list-1", "Groceries")

	name, ok := cache.Get(t.Context(), "list-1")
	require.True(t, ok)
	assert.Equal(t, "Groceries", name)
}

func TestMemory_MissingKey(t *testing.T) {
	cache := NewMemory(time.Minute)

	_, ok := cache.Get(t.Context(), "absent")
	assert.False(t, ok)
}

func TestMemory_TTLExpiry(t *testing.T) {
	cache := NewMemory(time.Minute)

	now := time.Now()
	cache.now = func() time.Time { return now }

	cache.Set(t.Context(), "list-1", "Groceries")

	now = now.Add(59 * time.Second)
	_, ok := cache.Get(t.Context(), "list-1")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = cache.Get(t.Context(), "list-1")
	assert.False(t, ok)
}

func TestMemory_Invalidate(t *testing.T) {
	cache := NewMemory(time.Minute)

	cache.Set(t.Context(), "list-1", "Groceries")
	cache.Invalidate(t.Context(), "list-1")

	_, ok := cache.Get(t.Context(), "list-1")
	assert.False(t, ok)
}

func TestMemory_SetReplacesName(t *testing.T) {
	cache := NewMemory(time.Minute)

	cache.Set(t.Context(), "list-1", "Old Name")
	cache.Set(t.Context(), "list-1", "New Name")

	name, ok := cache.Get(t.Context(), "list-1")
	require.True(t, ok)
	assert.Equal(t, "New Name", name)
}

func TestNewMemory_DefaultTTL(t *testing.T) {
	cache := NewMemory(0)
	assert.Equal(t, DefaultTTL, cache.ttl)
}
