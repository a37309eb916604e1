package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type artifact struct {
	Name string
}

func TestMemoryCache(t *testing.T) {
	var c Cache[*artifact] = NewMemoryCache[*artifact](NoExpiration, 0)

	_, ok := c.Get("Token")
	assert.False(t, ok)

	a := &artifact{Name: "Token"}
	c.Set("Token", a, 0)

	got, ok := c.Get("Token")
	assert.True(t, ok)
	assert.Same(t, a, got)

	c.Delete("Token")
	_, ok = c.Get("Token")
	assert.False(t, ok)
}

func TestMemoryCacheExpiration(t *testing.T) {
	c := NewMemoryCache[string](NoExpiration, 0)
	c.Set("k", "v", 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}
