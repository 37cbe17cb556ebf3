package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/starscape/town-server/catalog"
)

// Player is the per-user game record, 1:1 with an external identity. The map
// columns persist as jsonb on the relational backend. CurrentMission is set
// only while a mission is in flight and holds a snapshot of the catalog entry,
// so later catalog edits never change a mission already underway.
type Player struct {
	ID                  string                        `json:"id" gorm:"primaryKey"`
	Strength            int                           `json:"strength" gorm:"default:5"`
	Stamina             int                           `json:"stamina" gorm:"default:5"`
	Coins               int                           `json:"coins" gorm:"default:10"`
	Reputation          int                           `json:"reputation" gorm:"default:0"`
	Inventory           map[string]int                `json:"inventory" gorm:"type:jsonb;serializer:json"`
	Skills              map[string]catalog.SkillLevel `json:"skills" gorm:"type:jsonb;serializer:json"`
	MissionsCompleted   int                           `json:"missions_completed" gorm:"default:0"`
	LastActionTimestamp time.Time                     `json:"last_action_timestamp"`
	CurrentMission      *catalog.Mission              `json:"current_mission,omitempty" gorm:"type:jsonb;serializer:json"`

	Timestamps
}

// NewPlayer builds the starter loadout for a first-time player. The epoch-zero
// action timestamp means "never acted", so the first start is never gated.
func NewPlayer(userID string) *Player {
	return &Player{
		ID:                  userID,
		Strength:            5,
		Stamina:             5,
		Coins:               10,
		Reputation:          0,
		Inventory:           catalog.DefaultInventory(),
		Skills:              catalog.DefaultSkills(),
		MissionsCompleted:   0,
		LastActionTimestamp: time.Unix(0, 0).UTC(),
		CurrentMission:      nil,
	}
}

// Clone returns a deep copy; the memory backend hands out clones so callers
// can't reach into stored maps.
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Inventory = cloneIntMap(p.Inventory)
	cp.Skills = cloneSkillMap(p.Skills)
	if p.CurrentMission != nil {
		mission := *p.CurrentMission
		cp.CurrentMission = &mission
	}
	return &cp
}

// PlayerUpdate is a partial update: nil pointers and nil maps leave the field
// untouched. ClearMission distinguishes "clear" from "leave as is".
type PlayerUpdate struct {
	Strength            *int
	Stamina             *int
	Coins               *int
	Reputation          *int
	Inventory           map[string]int
	Skills              map[string]catalog.SkillLevel
	MissionsCompleted   *int
	LastActionTimestamp *time.Time
	CurrentMission      *catalog.Mission
	ClearMission        bool
}

// Apply writes the populated fields of u onto p.
func (u PlayerUpdate) Apply(p *Player) {
	if u.Strength != nil {
		p.Strength = *u.Strength
	}
	if u.Stamina != nil {
		p.Stamina = *u.Stamina
	}
	if u.Coins != nil {
		p.Coins = *u.Coins
	}
	if u.Reputation != nil {
		p.Reputation = *u.Reputation
	}
	if u.Inventory != nil {
		p.Inventory = u.Inventory
	}
	if u.Skills != nil {
		p.Skills = u.Skills
	}
	if u.MissionsCompleted != nil {
		p.MissionsCompleted = *u.MissionsCompleted
	}
	if u.LastActionTimestamp != nil {
		p.LastActionTimestamp = *u.LastActionTimestamp
	}
	if u.CurrentMission != nil {
		p.CurrentMission = u.CurrentMission
	}
	if u.ClearMission {
		p.CurrentMission = nil
	}
}

// Timestamps adds GORM auto-times.
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func cloneIntMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	cp := make(map[string]int, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func cloneSkillMap(m map[string]catalog.SkillLevel) map[string]catalog.SkillLevel {
	if m == nil {
		return nil
	}
	cp := make(map[string]catalog.SkillLevel, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	if m == nil {
		return nil
	}
	cp := make(map[string]bool, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
