package clarg

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// PlanCache provides thread-safe caching of per-type data. It uses the
// reflect.Type of the destination as the cache key; the factory for a type
// runs at most once, even under concurrent access, and its error is cached
// along with its result.
type PlanCache[C any] struct {
	cache sync.Map // map[reflect.Type]*planEntry[C]
}

type planEntry[C any] struct {
	once  sync.Once
	built atomic.Bool
	data  C
	err   error
}

// NewPlanCache creates a new thread-safe plan cache
func NewPlanCache[C any]() *PlanCache[C] {
	return &PlanCache[C]{}
}

// GetOrCreate returns the cached data for t, calling factory to build it
// if it doesn't exist yet.
func (pc *PlanCache[C]) GetOrCreate(t reflect.Type, factory func() (C, error)) (C, error) {
	v, ok := pc.cache.Load(t)
	if !ok {
		v, _ = pc.cache.LoadOrStore(t, &planEntry[C]{})
	}
	entry := v.(*planEntry[C])
	entry.once.Do(func() {
		entry.data, entry.err = factory()
		entry.built.Store(true)
	})
	return entry.data, entry.err
}

// Get retrieves the cached data for t if it was built without error
func (pc *PlanCache[C]) Get(t reflect.Type) (C, bool) {
	var zero C
	v, ok := pc.cache.Load(t)
	if !ok {
		return zero, false
	}
	entry := v.(*planEntry[C])
	if !entry.built.Load() || entry.err != nil {
		return zero, false
	}
	return entry.data, true
}

// Delete removes the cache entry for t
func (pc *PlanCache[C]) Delete(t reflect.Type) {
	pc.cache.Delete(t)
}

// Clear removes all cache entries
func (pc *PlanCache[C]) Clear() {
	pc.cache.Clear()
}
