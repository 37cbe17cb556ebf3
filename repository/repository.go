// Package repository exposes the domain-level data access the engine programs
// against: per-entity repos over a storage backend, with a TTL cache in front
// of reads and invalidation around writes.
package repository

import (
	"github.com/starscape/town-server/cache"
	"github.com/starscape/town-server/storage"
)

// DefaultLogLimit bounds the recent-log fetch for game state.
const DefaultLogLimit = 30

type Repository struct {
	Player  *PlayerRepository
	Town    *TownRepository
	GameLog *GameLogRepository
	Util    *UtilRepository
	Batch   *BatchRepository
}

func New(store storage.Store, c *cache.Cache) *Repository {
	r := &Repository{
		Player:  &PlayerRepository{store: store, cache: c},
		Town:    &TownRepository{store: store, cache: c},
		GameLog: &GameLogRepository{store: store, cache: c},
		Util:    &UtilRepository{store: store, cache: c},
	}
	r.Batch = &BatchRepository{repo: r}
	return r
}

// UtilRepository holds the escape hatches that don't belong to one entity.
type UtilRepository struct {
	store storage.Store
	cache *cache.Cache
}

// ClearAll wipes every table and the cache. The remote backend refuses this
// and the refusal is surfaced, not swallowed.
func (r *UtilRepository) ClearAll() error {
	if err := r.store.ClearAll(); err != nil {
		return err
	}
	r.cache.Clear()
	return nil
}
