// Package cache provides the key-value store used to memoize registry role
// documents per organisation number. Invalidation is caller-controlled.
package cache

import (
	"context"
	"sync"
	"time"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Healthcheck() fthealth.Check
}

// MemoryCache is a process-local Cache used when no Redis address is
// configured, and in tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: map[string]memoryEntry{},
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expires.IsZero() && c.now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expires = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Healthcheck() fthealth.Check {
	return fthealth.Check{
		ID:               "memory-cache-check",
		Name:             "In-memory cache is available",
		BusinessImpact:   "None; role documents are re-fetched from the registry",
		Severity:         3,
		PanicGuide:       "https://github.com/firmify/board-candidate-screener",
		TechnicalSummary: "The in-process cache never fails.",
		Checker: func() (string, error) {
			return "", nil
		},
	}
}
