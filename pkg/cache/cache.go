package cache

import "time"

// Cache 定义通用的进程内缓存接口
type Cache[V any] interface {
	// Set 设置缓存，ttl 为 0 时使用默认过期时间
	Set(key string, value V, ttl time.Duration)
	// Get 获取缓存
	Get(key string) (V, bool)
	// Delete 删除缓存
	Delete(key string)
}

// NoExpiration 永不过期
const NoExpiration time.Duration = -1
