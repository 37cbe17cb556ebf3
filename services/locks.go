package services

import "sync"

// playerLocks serializes mutations per player id. The storage layer has no
// optimistic-concurrency token, so the read-modify-write window in resolve and
// contribute needs this guard when two requests for one player race.
type playerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{locks: make(map[string]*sync.Mutex)}
}

func (pl *playerLocks) get(id string) *sync.Mutex {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	l, ok := pl.locks[id]
	if !ok {
		l = &sync.Mutex{}
		pl.locks[id] = l
	}
	return l
}
