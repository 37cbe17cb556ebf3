package repository

import (
	"time"

	"github.com/starscape/town-server/cache"
	"github.com/starscape/town-server/catalog"
	"github.com/starscape/town-server/models"
	"github.com/starscape/town-server/storage"
)

type PlayerRepository struct {
	store storage.Store
	cache *cache.Cache
}

// FindByID is the read-through path: cache hit wins, a miss populates.
// Returns (nil, nil) when the player does not exist.
func (r *PlayerRepository) FindByID(userID string) (*models.Player, error) {
	if v, ok := r.cache.Get(cache.PlayerKey(userID)); ok {
		if p, ok := v.(*models.Player); ok {
			return p, nil
		}
	}
	p, err := r.store.FindPlayer(userID)
	if err != nil {
		return nil, models.WrapStorage("find player "+userID, err)
	}
	if p != nil {
		r.cache.Set(cache.PlayerKey(userID), p, cache.DefaultTTL)
	}
	return p, nil
}

// FindByIDOrThrow distinguishes "doesn't exist" from "storage malfunctioned".
func (r *PlayerRepository) FindByIDOrThrow(userID string) (*models.Player, error) {
	p, err := r.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, models.ErrPlayerNotFound
	}
	return p, nil
}

// Create inserts the starter loadout for a new player.
func (r *PlayerRepository) Create(userID string) (*models.Player, error) {
	p := models.NewPlayer(userID)
	if err := r.store.InsertPlayer(p); err != nil {
		return nil, models.WrapStorage("create player "+userID, err)
	}
	r.cache.Set(cache.PlayerKey(userID), p, cache.DefaultTTL)
	return p, nil
}

// Update applies a partial update, invalidating the cached entry first and
// repopulating with the fresh row.
func (r *PlayerRepository) Update(userID string, update models.PlayerUpdate) (*models.Player, error) {
	r.cache.Delete(cache.PlayerKey(userID))
	p, err := r.store.UpdatePlayer(userID, update)
	if err != nil {
		return nil, models.WrapStorage("update player "+userID, err)
	}
	if p == nil {
		return nil, models.ErrPlayerNotFound
	}
	r.cache.Set(cache.PlayerKey(userID), p, cache.DefaultTTL)
	return p, nil
}

// UpdateMission records a mission start: snapshot attached, action clock
// stamped now.
func (r *PlayerRepository) UpdateMission(userID string, mission *catalog.Mission) error {
	now := time.Now()
	_, err := r.Update(userID, models.PlayerUpdate{
		LastActionTimestamp: &now,
		CurrentMission:      mission,
	})
	return err
}

// MissionCompletion carries everything a resolve writes back in one update.
type MissionCompletion struct {
	Coins             int
	Inventory         map[string]int
	Skills            map[string]catalog.SkillLevel
	MissionsCompleted int
}

// CompleteMission clears the in-flight mission and lands the computed state.
func (r *PlayerRepository) CompleteMission(userID string, c MissionCompletion) (*models.Player, error) {
	now := time.Now()
	return r.Update(userID, models.PlayerUpdate{
		Coins:               &c.Coins,
		Inventory:           c.Inventory,
		Skills:              c.Skills,
		MissionsCompleted:   &c.MissionsCompleted,
		LastActionTimestamp: &now,
		ClearMission:        true,
	})
}

// ContributeResources lands a contribution's player-side effects.
func (r *PlayerRepository) ContributeResources(userID string, inventory map[string]int, coins, reputation int) error {
	_, err := r.Update(userID, models.PlayerUpdate{
		Inventory:  inventory,
		Coins:      &coins,
		Reputation: &reputation,
	})
	return err
}

// Reset zeroes the player back to the starter loadout in place.
func (r *PlayerRepository) Reset(userID string) error {
	starter := models.NewPlayer(userID)
	_, err := r.Update(userID, models.PlayerUpdate{
		Strength:            &starter.Strength,
		Stamina:             &starter.Stamina,
		Coins:               &starter.Coins,
		Reputation:          &starter.Reputation,
		Inventory:           starter.Inventory,
		Skills:              starter.Skills,
		MissionsCompleted:   &starter.MissionsCompleted,
		LastActionTimestamp: &starter.LastActionTimestamp,
		ClearMission:        true,
	})
	return err
}

// List returns every player row; used by the admin surface and the reaper.
func (r *PlayerRepository) List() ([]models.Player, error) {
	players, err := r.store.ListPlayers()
	if err != nil {
		return nil, models.WrapStorage("list players", err)
	}
	return players, nil
}
