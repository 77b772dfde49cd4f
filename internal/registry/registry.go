// Package registry holds the process-wide schema registry: the single
// authoritative map from part number to its current schema pair. Callers
// must not cache field lists beyond a single operation.
package registry

import (
	"sort"
	"sync"

	"github.com/example/prodline/internal/core/schema"
)

// Registry is the in-memory schema catalog. It is safe for concurrent use.
// Configuration saves for one part are serialized through LockPart;
// different parts may reconcile in parallel.
type Registry struct {
	mu    sync.RWMutex
	pairs map[string]schema.Pair

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		pairs: make(map[string]schema.Pair),
		locks: make(map[string]*sync.Mutex),
	}
}

// Put replaces the schema pair for a part. The pair was derived together
// and is published together.
func (r *Registry) Put(partNumber string, pair schema.Pair) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs[partNumber] = pair
}

// Get returns the requested schema for a part, or nil when the part is not
// registered.
func (r *Registry) Get(partNumber string, which schema.Which) *schema.PartSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pair, ok := r.pairs[partNumber]
	if !ok {
		return nil
	}
	return pair.Schema(which)
}

// Pair returns the full schema pair for a part.
func (r *Registry) Pair(partNumber string) (schema.Pair, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pair, ok := r.pairs[partNumber]
	return pair, ok
}

// Parts returns the registered part numbers, sorted.
func (r *Registry) Parts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	parts := make([]string, 0, len(r.pairs))
	for p := range r.pairs {
		parts = append(parts, p)
	}
	sort.Strings(parts)
	return parts
}

// LockPart returns the mutex serializing configuration saves and
// reconciles for one part. The caller must hold it for the whole
// save-reconcile-publish sequence.
func (r *Registry) LockPart(partNumber string) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	if m, ok := r.locks[partNumber]; ok {
		return m
	}
	m := &sync.Mutex{}
	r.locks[partNumber] = m
	return m
}
