// Package workers holds the periodic background jobs: the cache sweep that
// bounds memory and the stale-mission reaper that surfaces abandoned runs.
package workers

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/starscape/town-server/cache"
	"github.com/starscape/town-server/catalog"
	"github.com/starscape/town-server/storage"
)

const (
	cacheSweepInterval  = 5 * time.Minute
	staleReapInterval   = 1 * time.Minute
	staleMissionMaxIdle = 1 * time.Hour
)

// StartMaintenance launches the maintenance scheduler. The caller owns the
// returned scheduler and shuts it down on exit.
func StartMaintenance(gameCache *cache.Cache, store storage.Store) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	// Proactive eviction; correctness rests on the cache's lazy check.
	_, err = sched.NewJob(
		gocron.DurationJob(cacheSweepInterval),
		gocron.NewTask(func() {
			if evicted := gameCache.Cleanup(); evicted > 0 {
				log.Printf("🧹 Cache sweep evicted %d expired entries (%d live)", evicted, gameCache.Len())
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	// Missions resolve on player request; one left unresolved for hours is a
	// client that went away. Logged for operators, never auto-resolved.
	_, err = sched.NewJob(
		gocron.DurationJob(staleReapInterval),
		gocron.NewTask(func() {
			players, err := store.ListPlayers()
			if err != nil {
				log.Printf("⚠️  [Reaper] Failed to list players: %v", err)
				return
			}
			for _, p := range players {
				if p.CurrentMission == nil {
					continue
				}
				idle := time.Since(p.LastActionTimestamp)
				if idle > staleMissionMaxIdle {
					log.Printf("⏳ [Reaper] Player %s has had %q resolvable for %s (cooldown is %s)",
						p.ID, p.CurrentMission.Name, idle.Round(time.Minute), catalog.Cooldown)
				}
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
