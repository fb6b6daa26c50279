package shellenv

import (
	"sync"
	"time"

	"github.com/wagiedev/claude-cli-env/internal/process"
)

// Entry is one cached derivation. Entries are replaced wholesale, never edited.
type Entry struct {
	Env        process.Env
	CapturedAt time.Time

	// Fallback marks an environment copied from the host process because the
	// login shell could not be run.
	Fallback bool
}

// Fresh reports whether the entry is younger than the TTL for its kind.
func (e Entry) Fresh(now time.Time, fullTTL, fallbackTTL time.Duration) bool {
	ttl := fullTTL
	if e.Fallback {
		ttl = fallbackTTL
	}

	return now.Sub(e.CapturedAt) < ttl
}

// Cache holds the last derived environment. The zero value is ready to use and
// a Cache may be shared between providers.
type Cache struct {
	mu    sync.RWMutex
	entry *Entry
}

// Load returns a copy of the cached entry. The copy's Env may be modified
// freely without affecting the cache.
func (c *Cache) Load() (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil {
		return Entry{}, false
	}

	entry := *c.entry
	entry.Env = entry.Env.Clone()

	return entry, true
}

// Store replaces the cached entry with a private copy of e.
func (c *Cache) Store(e Entry) {
	e.Env = e.Env.Clone()

	c.mu.Lock()
	c.entry = &e
	c.mu.Unlock()
}

// Clear drops the cached entry unconditionally.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
}
