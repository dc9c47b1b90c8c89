package cache

import (
	"sync"
	"testing"
	"time"

	"leafdesk/models"
)

func TestUserSessionCachePurgeExpired(t *testing.T) {
	c := NewUserSessionCache()
	now := time.Now()
	c.AddSession(models.Session{ID: "live", ExpiresAt: now.Add(time.Hour)})
	c.AddSession(models.Session{ID: "stale", ExpiresAt: now.Add(-time.Minute)})

	if removed := c.PurgeExpired(now); removed != 1 {
		t.Fatalf("expected 1 purged session, got %d", removed)
	}
	if _, ok := c.FindSessionBySessionToken("stale"); ok {
		t.Fatalf("expected stale session to be gone")
	}
	if _, ok := c.FindSessionBySessionToken("live"); !ok {
		t.Fatalf("expected live session to remain")
	}
}

func TestUserSessionCacheConcurrentAccess(t *testing.T) {
	c := NewUserSessionCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			c.AddSession(models.Session{ID: id, ExpiresAt: time.Now().Add(time.Hour)})
			c.FindSessionBySessionToken(id)
			if i%2 == 0 {
				c.DeleteSessionBySessionToken(id)
			}
		}(i)
	}
	wg.Wait()
	if c.Len() != 8 {
		t.Fatalf("expected 8 sessions, got %d", c.Len())
	}
}

func TestFactoryCacheInvalidateAndTTL(t *testing.T) {
	c := NewFactoryCache(time.Hour)
	c.Add("3", models.Factory{Name: "Hill Top"})
	if f, ok := c.Get("3"); !ok || f.Name != "Hill Top" {
		t.Fatalf("expected cached factory, got %+v %v", f, ok)
	}
	c.Invalidate("3")
	if _, ok := c.Get("3"); ok {
		t.Fatalf("expected factory to be invalidated")
	}

	expired := NewFactoryCache(time.Nanosecond)
	expired.Add("4", models.Factory{Name: "Old"})
	time.Sleep(time.Millisecond)
	if _, ok := expired.Get("4"); ok {
		t.Fatalf("expected expired entry to be treated as missing")
	}
}
