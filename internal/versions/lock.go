// AngelaMos | 2026
// lock.go

package versions

import "sync"

// keyedMutex serializes accept/undo per section while leaving different
// sections fully parallel. Propose intentionally does NOT hold the
// section lock across the provider call; it only touches the proposal
// cache, which has its own lock.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
