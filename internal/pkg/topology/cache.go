// Package topology owns the panel's cached copy of hub state. The cache is
// replaced wholly on every successful fetch; snapshots are never mutated in
// place, so readers may hold one across a render without copying.
package topology

import (
	"encoding/json"
	"hash/fnv"
	"sync"

	"github.com/anicoll/insteon-panel/internal/pkg/model"
)

type Cache struct {
	mu          sync.RWMutex
	snapshot    model.Topology
	fingerprint uint64
}

func New() *Cache {
	return &Cache{}
}

// Replace swaps in a freshly fetched snapshot and reports whether it
// differs from the previous one.
func (c *Cache) Replace(t model.Topology) bool {
	fp := fingerprint(t)
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := fp != c.fingerprint
	c.snapshot = t
	c.fingerprint = fp
	return changed
}

// Snapshot returns the current topology. The returned value must be
// treated as read-only.
func (c *Cache) Snapshot() model.Topology {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *Cache) Empty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot == nil
}

func (c *Cache) Fingerprint() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fingerprint
}

func fingerprint(t model.Topology) uint64 {
	if t == nil {
		return 0
	}
	return HashJSON(t)
}

// HashJSON fingerprints any JSON-marshallable value. Map keys marshal in
// sorted order, so equal values hash equal.
func HashJSON(v any) uint64 {
	data, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}
