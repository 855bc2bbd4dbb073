package cache

import (
	"sync"
	"time"
)

// 标签化读缓存：list/stats/months 这类重读接口把计算结果挂在 key 上，
// 每个 key 归属若干 tag，写路径按 tag 失效。
// 部署是单进程小团队场景，进程内 sync.Map 足够。

// 缓存标签
const (
	TagItems      = "items"
	TagStats      = "stats"
	TagMonths     = "months"
	TagWarehouses = "warehouses"
	TagToys       = "toys"
)

type cacheEntry struct {
	value      interface{}
	tags       []string
	expiration int64
}

// TagCache 进程内 TTL 缓存，带标签失效
type TagCache struct {
	entries sync.Map // key -> cacheEntry
	ttl     time.Duration
}

// New 创建缓存，ttl 为条目默认存活时间
func New(ttl time.Duration) *TagCache {
	return &TagCache{ttl: ttl}
}

// Set 写入缓存并登记标签
func (c *TagCache) Set(key string, value interface{}, tags ...string) {
	c.entries.Store(key, cacheEntry{
		value:      value,
		tags:       tags,
		expiration: time.Now().Add(c.ttl).UnixNano(),
	})
}

// Get 读取缓存，过期条目懒删除
func (c *TagCache) Get(key string) (interface{}, bool) {
	val, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}

	entry := val.(cacheEntry)
	if time.Now().UnixNano() > entry.expiration {
		c.entries.Delete(key)
		return nil, false
	}
	return entry.value, true
}

// Invalidate 删除带任一指定标签的全部条目
func (c *TagCache) Invalidate(tags ...string) {
	if len(tags) == 0 {
		return
	}
	tagSet := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tagSet[t] = struct{}{}
	}

	c.entries.Range(func(key, val interface{}) bool {
		entry := val.(cacheEntry)
		for _, t := range entry.tags {
			if _, hit := tagSet[t]; hit {
				c.entries.Delete(key)
				break
			}
		}
		return true
	})
}

// Clear 清空全部条目
func (c *TagCache) Clear() {
	c.entries.Range(func(key, _ interface{}) bool {
		c.entries.Delete(key)
		return true
	})
}

// GetOrLoad 读取缓存，未命中时调用 loader 并回填
func (c *TagCache) GetOrLoad(key string, loader func() (interface{}, error), tags ...string) (interface{}, error) {
	if val, ok := c.Get(key); ok {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return nil, err
	}
	c.Set(key, val, tags...)
	return val, nil
}
