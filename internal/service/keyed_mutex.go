package service

import "sync"

// keyedMutex serializes work per key. Slot edits and application transitions
// are read-modify-write over whole trainer documents, so concurrent requests
// for the same trainer email must not interleave.
type keyedMutex struct {
	locks sync.Map // string -> *sync.Mutex
}

// Lock acquires the mutex for key and returns its unlock function.
// Entries are never evicted, so the map grows with the number of distinct
// keys ever locked. One mutex per trainer email stays small; revisit with
// refcounted eviction if key cardinality becomes unbounded.
func (k *keyedMutex) Lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
