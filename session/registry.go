// Package session keeps per-browser widget state between requests.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const CookieName = "salon_visitor"

// Registry is a bounded, expiring set of visitors. Evicted visitors are closed.
type Registry struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *Visitor]
}

func NewRegistry(size int, ttl time.Duration) *Registry {
	onEvict := func(id string, v *Visitor) {
		slog.Debug("visitor evicted", "visitor", id)
		v.Close()
	}
	return &Registry{
		cache: expirable.NewLRU[string, *Visitor](size, onEvict, ttl),
	}
}

// Get returns the visitor for id, creating one when id is unknown. A malformed id is replaced
// with a fresh one; an expired but well-formed id is reused so the browser's cookie stays valid.
func (r *Registry) Get(id string) (v *Visitor, created bool) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.cache.Get(id); ok {
		// re-adding refreshes the expiry so active visitors are kept
		r.cache.Add(id, v)
		return v, false
	}
	// an expired entry not yet swept would be overwritten by Add without eviction
	if r.cache.Contains(id) {
		r.cache.Remove(id)
	}
	v = newVisitor(id)
	r.cache.Add(id, v)
	return v, true
}

// Lookup returns the visitor for id without creating one.
func (r *Registry) Lookup(id string) (*Visitor, bool) {
	return r.cache.Get(id)
}

func (r *Registry) Len() int {
	return r.cache.Len()
}

// Close closes every visitor and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Purge()
}
