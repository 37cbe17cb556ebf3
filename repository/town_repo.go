package repository

import (
	"github.com/google/uuid"

	"github.com/starscape/town-server/cache"
	"github.com/starscape/town-server/catalog"
	"github.com/starscape/town-server/models"
	"github.com/starscape/town-server/storage"
)

type TownRepository struct {
	store storage.Store
	cache *cache.Cache
}

// Find returns the singleton town, or (nil, nil) before first creation.
func (r *TownRepository) Find() (*models.Town, error) {
	if v, ok := r.cache.Get(cache.TownKey()); ok {
		if t, ok := v.(*models.Town); ok {
			return t, nil
		}
	}
	t, err := r.store.FindTown()
	if err != nil {
		return nil, models.WrapStorage("find town", err)
	}
	if t != nil {
		r.cache.Set(cache.TownKey(), t, cache.TownTTL)
	}
	return t, nil
}

func (r *TownRepository) FindOrThrow() (*models.Town, error) {
	t, err := r.Find()
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, models.ErrTownNotFound
	}
	return t, nil
}

// FindOrCreate lazily creates the singleton on first access.
func (r *TownRepository) FindOrCreate() (*models.Town, error) {
	t, err := r.Find()
	if err != nil || t != nil {
		return t, err
	}
	return r.Create()
}

func (r *TownRepository) Create() (*models.Town, error) {
	t := models.NewTown(uuid.NewString())
	if err := r.store.InsertTown(t); err != nil {
		return nil, models.WrapStorage("create town", err)
	}
	r.cache.Set(cache.TownKey(), t, cache.TownTTL)
	return t, nil
}

func (r *TownRepository) Update(townID string, update models.TownUpdate) (*models.Town, error) {
	r.cache.Delete(cache.TownKey())
	t, err := r.store.UpdateTown(townID, update)
	if err != nil {
		return nil, models.WrapStorage("update town "+townID, err)
	}
	if t == nil {
		return nil, models.ErrTownNotFound
	}
	r.cache.Set(cache.TownKey(), t, cache.TownTTL)
	return t, nil
}

// AddToTreasury merges a contribution at the storage layer so concurrent
// contributors never overwrite each other.
func (r *TownRepository) AddToTreasury(townID, resource string, amount int) (*models.Town, error) {
	r.cache.Delete(cache.TownKey())
	t, err := r.store.AddToTreasury(townID, resource, amount)
	if err != nil {
		return nil, models.WrapStorage("add to treasury", err)
	}
	if t == nil {
		return nil, models.ErrTownNotFound
	}
	r.cache.Set(cache.TownKey(), t, cache.TownTTL)
	return t, nil
}

// RecordSlay bumps the town-wide kill counter for enemy.
func (r *TownRepository) RecordSlay(townID, enemy string) (*models.Town, error) {
	r.cache.Delete(cache.TownKey())
	t, err := r.store.IncrementSlayCount(townID, enemy, 1)
	if err != nil {
		return nil, models.WrapStorage("record slay", err)
	}
	if t == nil {
		return nil, models.ErrTownNotFound
	}
	r.cache.Set(cache.TownKey(), t, cache.TownTTL)
	return t, nil
}

// CompleteObjective lands an objective completion atomically.
func (r *TownRepository) CompleteObjective(townID string, completion models.ObjectiveCompletion) (*models.Town, error) {
	r.cache.Delete(cache.TownKey())
	t, err := r.store.CompleteObjective(townID, completion)
	if err != nil {
		return nil, models.WrapStorage("complete objective "+completion.ObjectiveID, err)
	}
	if t == nil {
		return nil, models.ErrTownNotFound
	}
	r.cache.Set(cache.TownKey(), t, cache.TownTTL)
	return t, nil
}

// Reset restores the starter town state in place.
func (r *TownRepository) Reset(townID string) error {
	starter := models.NewTown(townID)
	_, err := r.Update(townID, models.TownUpdate{
		Name:                &starter.Name,
		Level:               &starter.Level,
		Treasury:            starter.Treasury,
		Upgrades:            starter.Upgrades,
		UnlockedMissions:    starter.UnlockedMissions,
		CompletedObjectives: starter.CompletedObjectives,
		SlayCounts:          starter.SlayCounts,
		UnlockedTerritories: starter.UnlockedTerritories,
	})
	return err
}

// CurrentObjective is a convenience over the catalog lookup.
func (r *TownRepository) CurrentObjective(t *models.Town) *catalog.TownObjective {
	return catalog.CurrentObjective(t.CompletedObjectives)
}
