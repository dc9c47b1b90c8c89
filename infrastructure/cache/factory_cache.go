package cache

import (
	"sync"
	"time"

	"leafdesk/models"
)

type factoryEntry struct {
	factory  models.Factory
	storedAt time.Time
}

// FactoryCache keeps factory profiles by factory id for the top navigation.
// Entries older than ttl are treated as missing.
type FactoryCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	factories map[string]factoryEntry
}

func NewFactoryCache(ttl time.Duration) *FactoryCache {
	return &FactoryCache{ttl: ttl, factories: make(map[string]factoryEntry)}
}

func (c *FactoryCache) Add(factoryID string, f models.Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[factoryID] = factoryEntry{factory: f, storedAt: time.Now()}
}

func (c *FactoryCache) Get(factoryID string) (models.Factory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.factories[factoryID]
	if !ok {
		return models.Factory{}, false
	}
	if c.ttl > 0 && time.Since(e.storedAt) > c.ttl {
		return models.Factory{}, false
	}
	return e.factory, true
}

// Invalidate forgets a factory after it was edited.
func (c *FactoryCache) Invalidate(factoryID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.factories, factoryID)
}
