package models

import "github.com/starscape/town-server/catalog"

// Town is the singleton shared record every player contributes to.
// CompletedObjectives only ever grows, in completion order.
type Town struct {
	ID                  string          `json:"id" gorm:"primaryKey"`
	Name                string          `json:"name" gorm:"default:'Starscape Village'"`
	Level               int             `json:"level" gorm:"default:1"`
	Treasury            map[string]int  `json:"treasury" gorm:"type:jsonb;serializer:json"`
	Upgrades            map[string]bool `json:"upgrades" gorm:"type:jsonb;serializer:json"`
	UnlockedMissions    []string        `json:"unlocked_missions" gorm:"type:jsonb;serializer:json"`
	CompletedObjectives []string        `json:"completed_objectives" gorm:"type:jsonb;serializer:json"`
	SlayCounts          map[string]int  `json:"slay_counts" gorm:"type:jsonb;serializer:json"`
	UnlockedTerritories []string        `json:"unlocked_territories" gorm:"type:jsonb;serializer:json"`

	Timestamps
}

// NewTown builds the starter town record.
func NewTown(id string) *Town {
	return &Town{
		ID:                  id,
		Name:                catalog.TownName,
		Level:               1,
		Treasury:            map[string]int{},
		Upgrades:            catalog.DefaultTownUpgrades(),
		UnlockedMissions:    []string{},
		CompletedObjectives: []string{},
		SlayCounts:          map[string]int{},
		UnlockedTerritories: catalog.DefaultTerritories(),
	}
}

func (t *Town) Clone() *Town {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Treasury = cloneIntMap(t.Treasury)
	cp.Upgrades = cloneBoolMap(t.Upgrades)
	cp.UnlockedMissions = cloneStrings(t.UnlockedMissions)
	cp.CompletedObjectives = cloneStrings(t.CompletedObjectives)
	cp.SlayCounts = cloneIntMap(t.SlayCounts)
	cp.UnlockedTerritories = cloneStrings(t.UnlockedTerritories)
	return &cp
}

// TownUpdate is a partial update mirroring PlayerUpdate.
type TownUpdate struct {
	Name                *string
	Level               *int
	Treasury            map[string]int
	Upgrades            map[string]bool
	UnlockedMissions    []string
	CompletedObjectives []string
	SlayCounts          map[string]int
	UnlockedTerritories []string
}

func (u TownUpdate) Apply(t *Town) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Level != nil {
		t.Level = *u.Level
	}
	if u.Treasury != nil {
		t.Treasury = u.Treasury
	}
	if u.Upgrades != nil {
		t.Upgrades = u.Upgrades
	}
	if u.UnlockedMissions != nil {
		t.UnlockedMissions = u.UnlockedMissions
	}
	if u.CompletedObjectives != nil {
		t.CompletedObjectives = u.CompletedObjectives
	}
	if u.SlayCounts != nil {
		t.SlayCounts = u.SlayCounts
	}
	if u.UnlockedTerritories != nil {
		t.UnlockedTerritories = u.UnlockedTerritories
	}
}

// ObjectiveCompletion is the atomic merge the storage layer applies when a
// town objective completes: append the id (if absent), flip upgrade flags on,
// union the unlocked missions. Never removes or reorders anything.
type ObjectiveCompletion struct {
	ObjectiveID    string
	UpgradeFlags   []string
	UnlockMissions []string
}

func (c ObjectiveCompletion) Apply(t *Town) {
	for _, id := range t.CompletedObjectives {
		if id == c.ObjectiveID {
			return // already recorded; idempotent
		}
	}
	t.CompletedObjectives = append(t.CompletedObjectives, c.ObjectiveID)
	if len(c.UpgradeFlags) > 0 {
		if t.Upgrades == nil {
			t.Upgrades = map[string]bool{}
		}
		for _, flag := range c.UpgradeFlags {
			t.Upgrades[flag] = true
		}
	}
	for _, mission := range c.UnlockMissions {
		known := false
		for _, existing := range t.UnlockedMissions {
			if existing == mission {
				known = true
				break
			}
		}
		if !known {
			t.UnlockedMissions = append(t.UnlockedMissions, mission)
		}
	}
}
