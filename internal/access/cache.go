// Package access provides the visibility decision type shared between the
// resolver and its cached materialization, plus a concurrency-safe cache of
// resolved (tenant, source) decisions.
//
// The cache is a periodically rebuilt, fast-lookup materialization: the
// resolver's output for every (tenant, source) pair is captured into an
// immutable Snapshot, and the cache holds a single atomic pointer to the
// current snapshot. Rebuilds construct a complete new snapshot off to the
// side and install it with one pointer store, so readers never block on a
// rebuild and never observe a partially built snapshot. Lookups are stale by
// at most the rebuild interval; callers needing strict post-write consistency
// go to the resolver directly.
package access

import (
	"sync/atomic"
	"time"
)

// Decision is the outcome of resolving visibility of a source for a tenant.
//
// When Visible is true, Categories lists the categories the tenant may see;
// a nil Categories means unrestricted (every category). When Visible is
// false, Categories is always nil.
type Decision struct {
	Visible    bool     `json:"visible"`
	Categories []string `json:"categories,omitempty"`
}

// Hidden is the zero, fail-closed decision.
var Hidden = Decision{}

// Allows reports whether the decision permits the given category. The empty
// category asks only about source-level visibility. An unrestricted visible
// decision allows everything.
func (d Decision) Allows(category string) bool {
	if !d.Visible {
		return false
	}
	if category == "" || d.Categories == nil {
		return true
	}
	for _, c := range d.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Key identifies one cached (tenant, source) pair.
type Key struct {
	TenantID string
	SourceID string
}

// Snapshot is an immutable set of resolved decisions. It is never mutated
// after construction and is therefore safe for unsynchronized concurrent
// reads.
type Snapshot struct {
	builtAt time.Time
	entries map[Key]Decision
}

// NewSnapshot constructs a snapshot from resolved entries. The map is owned
// by the snapshot after the call; callers must not retain or mutate it.
func NewSnapshot(entries map[Key]Decision) *Snapshot {
	if entries == nil {
		entries = map[Key]Decision{}
	}
	return &Snapshot{builtAt: time.Now().UTC(), entries: entries}
}

// BuiltAt returns the construction time of the snapshot.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Len returns the number of cached pairs.
func (s *Snapshot) Len() int { return len(s.entries) }

// Lookup returns the cached decision for the pair. Missing pairs are Hidden:
// the cache shares the resolver's fail-closed posture, so a tenant/source
// combination the rebuild has not produced is not visible.
func (s *Snapshot) Lookup(tenantID, sourceID string) Decision {
	return s.entries[Key{TenantID: tenantID, SourceID: sourceID}]
}

// Entries returns a copy of the snapshot's entries. Used by scoped rebuilds
// to carry forward decisions outside the rebuild scope.
func (s *Snapshot) Entries() map[Key]Decision {
	out := make(map[Key]Decision, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Cache holds the current snapshot behind an atomic pointer. The zero value
// is not usable; construct with NewCache. All methods are safe for concurrent
// use; Swap is the only writer-side operation and is a single pointer store.
type Cache struct {
	cur atomic.Pointer[Snapshot]
}

// NewCache returns a cache primed with an empty snapshot, so lookups before
// the first rebuild are well-defined (everything Hidden).
func NewCache() *Cache {
	c := &Cache{}
	c.cur.Store(NewSnapshot(nil))
	return c
}

// Lookup returns the cached decision for (tenantID, sourceID) from the
// current snapshot. The result may be stale with respect to the resolver by
// up to one rebuild interval.
func (c *Cache) Lookup(tenantID, sourceID string) Decision {
	return c.cur.Load().Lookup(tenantID, sourceID)
}

// Current returns the snapshot presently being served.
func (c *Cache) Current() *Snapshot { return c.cur.Load() }

// Swap installs a fully built snapshot as the served one. The previous
// snapshot remains valid for readers that already hold it.
func (c *Cache) Swap(s *Snapshot) {
	if s == nil {
		return
	}
	c.cur.Store(s)
}
