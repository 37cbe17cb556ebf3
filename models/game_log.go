package models

import (
	"time"

	"github.com/starscape/town-server/catalog"
)

const (
	LogTypeAction = "action"
	LogTypeSystem = "system"
)

// SystemPlayerID attributes a log entry to the game itself rather than a
// player (objective completions, unlock announcements).
const SystemPlayerID = "system"

// GameLog is an append-only event record. Rows are immutable once written and
// queried newest-first.
type GameLog struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	PlayerID  string    `json:"player_id" gorm:"index;not null"`
	Message   string    `json:"message" gorm:"not null"`
	Type      string    `json:"type" gorm:"default:'action'"`
	Timestamp time.Time `json:"timestamp" gorm:"index;autoCreateTime"`
}

// GameState is the aggregate the request surface hands to clients. Player and
// Town may be nil when the caller has not initialized yet.
type GameState struct {
	Player *Player   `json:"player"`
	Town   *Town     `json:"town"`
	Logs   []GameLog `json:"logs"`
}

// XPGain reports skill XP granted by a resolved mission.
type XPGain struct {
	Skill  string `json:"skill"`
	Amount int    `json:"amount"`
}

// MissionResult is the outcome of resolving a mission.
type MissionResult struct {
	ResultsText string         `json:"results_text"`
	Rewards     map[string]int `json:"rewards"`
	XPGained    *XPGain        `json:"xp_gained,omitempty"`
	Success     bool           `json:"success"`
}

// ObjectiveCheck reports the result of a town objective evaluation.
type ObjectiveCheck struct {
	Completed bool                      `json:"completed"`
	Objective string                    `json:"objective,omitempty"`
	Unlocks   *catalog.ObjectiveUnlocks `json:"unlocks,omitempty"`
}

// StatUpdates is the admin stat overwrite payload; nil fields are untouched.
type StatUpdates struct {
	Strength   *int `json:"strength,omitempty"`
	Stamina    *int `json:"stamina,omitempty"`
	Coins      *int `json:"coins,omitempty"`
	Reputation *int `json:"reputation,omitempty"`
}
