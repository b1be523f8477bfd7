// Package cache 提供按 key 合并并发请求的 get-or-fetch 缓存。
// 同一 key 在新鲜窗口内只会触发一次真实查询，并发调用共享同一结果。
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

type Cache struct {
	rdb   *redis.Client // 可为 nil，此时只用进程内缓存
	group singleflight.Group

	mu    sync.RWMutex
	local map[string]entry
}

func New(rdb *redis.Client) *Cache {
	return &Cache{
		rdb:   rdb,
		local: make(map[string]entry),
	}
}

// GetOrFetch 依次检查进程内缓存、Redis，未命中时通过 singleflight 执行 fetch。
// fetch 的结果按 ttl 写回两级缓存。
func (c *Cache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.local[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(e.expiresAt) {
		return e.data, nil
	}

	if c.rdb != nil {
		val, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			c.store(key, val, ttl)
			return val, nil
		}
		// redis 不可用或未命中都降级到 fetch
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// 合并窗口内可能有别的协程已经填好了本地缓存
		c.mu.RLock()
		e, ok := c.local[key]
		c.mu.RUnlock()
		if ok && time.Now().Before(e.expiresAt) {
			return e.data, nil
		}

		data, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.store(key, data, ttl)
		if c.rdb != nil {
			c.rdb.Set(ctx, key, data, ttl)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate 主动失效，写路径（管理端改动、测验通过）之后调用
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.local, key)
	}
	c.mu.Unlock()

	if c.rdb != nil {
		c.rdb.Del(ctx, keys...)
	}
}

// InvalidatePrefix 按前缀失效，管理端改动后清掉所有分页/筛选变体。
// 键空间很小（目录查询的筛选组合），redis 侧用 KEYS 足够。
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	c.mu.Lock()
	for key := range c.local {
		if strings.HasPrefix(key, prefix) {
			delete(c.local, key)
		}
	}
	c.mu.Unlock()

	if c.rdb != nil {
		keys, err := c.rdb.Keys(ctx, prefix+"*").Result()
		if err == nil && len(keys) > 0 {
			c.rdb.Del(ctx, keys...)
		}
	}
}

func (c *Cache) store(key string, data []byte, ttl time.Duration) {
	c.mu.Lock()
	c.local[key] = entry{data: data, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}
