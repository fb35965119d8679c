package velvet

import (
	"encoding/json"
	"sync"
	"time"
)

type cacheItem struct {
	body       json.RawMessage
	expiration time.Time
}

// ttlCache is a small per-URL response cache. The alert checker and the
// command handlers may hit the same endpoints from different goroutines,
// so access is mutex-guarded.
type ttlCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]cacheItem
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{
		ttl:   ttl,
		items: make(map[string]cacheItem),
	}
}

func (c *ttlCache) get(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found {
		return nil, false
	}
	if time.Now().After(item.expiration) {
		delete(c.items, key)
		return nil, false
	}
	return item.body, true
}

func (c *ttlCache) set(key string, body json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		body:       body,
		expiration: time.Now().Add(c.ttl),
	}
}
