package service

import "sync"

// keyedLock serializes critical sections that share a string key. Count-
// then-act sequences (grant mutations per role, enrollment mutations per
// subject and period) take the key's lock across the re-read, the check,
// and the save. Entries are refcounted and dropped once the last holder
// releases them so the map stays bounded.
type keyedLock struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{entries: make(map[string]*lockEntry)}
}

// Lock acquires the lock for key and returns its release function.
func (l *keyedLock) Lock(key string) (unlock func()) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &lockEntry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}
