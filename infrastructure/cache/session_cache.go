package cache

import (
	"sync"
	"time"

	"leafdesk/models"
)

// UserSessionCache stores resolved sessions by cookie token so the remote
// bearer token is not read from sqlite on every request.
type UserSessionCache struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewUserSessionCache() *UserSessionCache {
	return &UserSessionCache{sessions: make(map[string]models.Session)}
}

func (c *UserSessionCache) AddSession(s models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.ID] = s
}

func (c *UserSessionCache) FindSessionBySessionToken(token string) (models.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[token]
	return s, ok
}

func (c *UserSessionCache) DeleteSessionBySessionToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, token)
}

// PurgeExpired drops sessions whose expiry is before now and returns how
// many were removed.
func (c *UserSessionCache) PurgeExpired(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for token, s := range c.sessions {
		if now.After(s.ExpiresAt) {
			delete(c.sessions, token)
			removed++
		}
	}
	return removed
}

func (c *UserSessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}
