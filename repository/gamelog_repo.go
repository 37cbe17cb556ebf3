package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/starscape/town-server/cache"
	"github.com/starscape/town-server/models"
	"github.com/starscape/town-server/storage"
)

type GameLogRepository struct {
	store storage.Store
	cache *cache.Cache
}

// FindMany returns a player's recent log entries, newest first.
func (r *GameLogRepository) FindMany(playerID string, limit int) ([]models.GameLog, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	if v, ok := r.cache.Get(cache.LogsKey(playerID)); ok {
		if logs, ok := v.([]models.GameLog); ok {
			return logs, nil
		}
	}
	logs, err := r.store.FindGameLogs(playerID, limit)
	if err != nil {
		return nil, models.WrapStorage("find logs for "+playerID, err)
	}
	r.cache.Set(cache.LogsKey(playerID), logs, cache.DefaultTTL)
	return logs, nil
}

// Create appends one entry.
func (r *GameLogRepository) Create(playerID, message, logType string) (*models.GameLog, error) {
	l := &models.GameLog{
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		Message:   message,
		Type:      logType,
		Timestamp: time.Now(),
	}
	if err := r.store.InsertGameLog(l); err != nil {
		return nil, models.WrapStorage("create log", err)
	}
	r.cache.Delete(cache.LogsKey(playerID))
	return l, nil
}

// LogEntry is the input shape for batch appends.
type LogEntry struct {
	PlayerID string
	Message  string
	Type     string
}

// CreateMany appends several entries at once (objective completion emits a
// burst of system lines).
func (r *GameLogRepository) CreateMany(entries []LogEntry) ([]models.GameLog, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	logs := make([]models.GameLog, len(entries))
	now := time.Now()
	for i, e := range entries {
		logs[i] = models.GameLog{
			ID:        uuid.NewString(),
			PlayerID:  e.PlayerID,
			Message:   e.Message,
			Type:      e.Type,
			Timestamp: now,
		}
	}
	if err := r.store.InsertGameLogs(logs); err != nil {
		return nil, models.WrapStorage("create logs", err)
	}
	for _, e := range entries {
		r.cache.Delete(cache.LogsKey(e.PlayerID))
	}
	return logs, nil
}

// DeleteByPlayer bulk-deletes a player's entries; used by reset.
func (r *GameLogRepository) DeleteByPlayer(playerID string) error {
	if err := r.store.DeleteGameLogsByPlayer(playerID); err != nil {
		return models.WrapStorage("delete logs for "+playerID, err)
	}
	r.cache.Delete(cache.LogsKey(playerID))
	return nil
}
