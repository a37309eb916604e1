package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache 基于 go-cache 的内存缓存，直接保存对象本身
type MemoryCache[V any] struct {
	c *gocache.Cache
}

func NewMemoryCache[V any](defaultExpiration, cleanupInterval time.Duration) *MemoryCache[V] {
	return &MemoryCache[V]{
		c: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func (m *MemoryCache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, value, ttl)
}

func (m *MemoryCache[V]) Get(key string) (V, bool) {
	var zero V
	val, found := m.c.Get(key)
	if !found {
		return zero, false
	}
	typed, ok := val.(V)
	if !ok {
		return zero, false
	}
	return typed, true
}

func (m *MemoryCache[V]) Delete(key string) {
	m.c.Delete(key)
}

// ItemCount 当前缓存条目数 (包含尚未清理的过期条目)
func (m *MemoryCache[V]) ItemCount() int {
	return m.c.ItemCount()
}
