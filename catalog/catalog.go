// Package catalog holds the immutable game tables: the mission pool, crafting
// recipes, town objectives and starter templates. Everything here is reference
// data — a player never mutates it, they get snapshot copies instead.
package catalog

import "time"

// CooldownSeconds gates how soon after starting a mission it may be resolved.
// Every mission uses this one constant; the per-mission duration hints in the
// pool are informational only.
const CooldownSeconds = 10

const Cooldown = CooldownSeconds * time.Second

// XPThresholdPerLevel is the per-level XP cost on the mission-resolution path:
// a skill levels up while xp >= level * XPThresholdPerLevel.
const XPThresholdPerLevel = 100

// AdminXPThresholdPerLevel is the smaller per-level XP cost used only by the
// admin grant path. Both constants are live on their respective paths.
const AdminXPThresholdPerLevel = 10

const TownName = "Starscape Village"

type MissionType string

const (
	MissionGathering MissionType = "gathering"
	MissionCombat    MissionType = "combat"
	MissionCrafting  MissionType = "crafting"
)

type MissionCategory string

const (
	CategorySkill  MissionCategory = "skill"
	CategoryCombat MissionCategory = "combat"
)

// GatheringSpec carries the fields only gathering missions have.
type GatheringSpec struct {
	Resource string `json:"resource"`
	Amount   int    `json:"amount"`
}

// CombatSpec carries the fields only combat missions have.
type CombatSpec struct {
	Enemy string `json:"enemy"`
}

// CraftingSpec carries the fields only crafting missions have.
type CraftingSpec struct {
	Cost   map[string]int `json:"cost"`
	Result map[string]int `json:"result"`
}

// Mission is a catalog-defined activity. Exactly one of the variant pointers
// is set, matching Type; resolution dispatches on Type and reads that variant.
type Mission struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Type            MissionType     `json:"type"`
	Category        MissionCategory `json:"category"`
	Description     string          `json:"description"`
	Level           int             `json:"level"`
	Skill           string          `json:"skill,omitempty"`
	DurationMinutes int             `json:"duration_minutes,omitempty"`

	Gathering *GatheringSpec `json:"gathering,omitempty"`
	Combat    *CombatSpec    `json:"combat,omitempty"`
	Crafting  *CraftingSpec  `json:"crafting,omitempty"`
}

type CraftingRecipe struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Skill       string         `json:"skill,omitempty"`
	Level       int            `json:"level"`
	Cost        map[string]int `json:"cost"`
	Result      map[string]int `json:"result"`
}

// Mission converts a recipe into a startable crafting mission.
func (r CraftingRecipe) Mission() Mission {
	return Mission{
		ID:          r.ID,
		Name:        r.Name,
		Type:        MissionCrafting,
		Category:    CategorySkill,
		Description: r.Description,
		Level:       r.Level,
		Skill:       r.Skill,
		Crafting: &CraftingSpec{
			Cost:   r.Cost,
			Result: r.Result,
		},
	}
}

type ObjectiveType string

const (
	ObjectiveContribution ObjectiveType = "contribution"
	ObjectiveSlay         ObjectiveType = "slay"
)

type ObjectiveUnlocks struct {
	Upgrades []string `json:"upgrades,omitempty"`
	Missions []string `json:"missions,omitempty"`
}

// TownObjective is a town-wide progression gate. Objectives form a single
// chain: DependsOn names the objective that must complete first.
type TownObjective struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Type         ObjectiveType    `json:"type"`
	Requirements map[string]int   `json:"requirements"`
	Unlocks      ObjectiveUnlocks `json:"unlocks"`
	DependsOn    string           `json:"depends_on,omitempty"`
}

// AllMissionsPool is the full mission table, keyed by mission id.
var AllMissionsPool = map[string]Mission{
	"m101": {
		ID:          "m101",
		Name:        "Gather Sturdy Wood",
		Type:        MissionGathering,
		Category:    CategorySkill,
		Description: "Collect wood from the nearby thicket.",
		Level:       1,
		Skill:       "logging",
		Gathering:   &GatheringSpec{Resource: "sturdy_wood", Amount: 1},
	},
	"m102": {
		ID:          "m102",
		Name:        "Forage for Berries",
		Type:        MissionGathering,
		Category:    CategorySkill,
		Description: "Find edible berries in the undergrowth.",
		Level:       1,
		Skill:       "gathering",
		Gathering:   &GatheringSpec{Resource: "berries", Amount: 2},
	},
	"m103": {
		ID:          "m103",
		Name:        "Hunt Rabid Wolf",
		Type:        MissionCombat,
		Category:    CategoryCombat,
		Description: "A rabid wolf is menacing the area. Take it down.",
		Level:       1,
		Skill:       "unarmed",
		Combat:      &CombatSpec{Enemy: "Rabid Wolf"},
	},
}

var CraftingRecipes = map[string]CraftingRecipe{
	"craft001": {
		ID:          "craft001",
		Name:        "Strong Wooden Sword",
		Description: "Craft a basic but sturdy sword.",
		Skill:       "weapons",
		Level:       1,
		Cost:        map[string]int{"sturdy_wood": 4},
		Result:      map[string]int{"strong_wooden_sword": 1},
	},
}

// TerritoryMissions maps each territory to the missions reachable inside it.
var TerritoryMissions = map[string][]string{
	"t1": {"m101", "m102"},
}

// TownObjectives is evaluated in declared order; the current objective is the
// first uncompleted entry whose dependency is satisfied.
var TownObjectives = []TownObjective{
	{
		ID:           "build_notice_board",
		Name:         "Build Map & Notice Board",
		Type:         ObjectiveContribution,
		Requirements: map[string]int{"sturdy_wood": 2, "stone": 2},
		Unlocks: ObjectiveUnlocks{
			Upgrades: []string{"map_unlocked"},
			Missions: []string{"m103"},
		},
	},
	{
		ID:           "clear_wolves",
		Name:         "Clear the Wolf Menace",
		Type:         ObjectiveSlay,
		Requirements: map[string]int{"Rabid Wolf": 1},
		DependsOn:    "build_notice_board",
	},
	{
		ID:           "build_crafting_station",
		Name:         "Build a Crafting Station",
		Type:         ObjectiveContribution,
		Requirements: map[string]int{"sturdy_wood": 6},
		Unlocks: ObjectiveUnlocks{
			Upgrades: []string{"crafting_station_unlocked"},
		},
		DependsOn: "clear_wolves",
	},
}

// MissionByID resolves a startable mission from the pool or, failing that,
// from the crafting recipe table.
func MissionByID(id string) (Mission, bool) {
	if m, ok := AllMissionsPool[id]; ok {
		return m, true
	}
	if r, ok := CraftingRecipes[id]; ok {
		return r.Mission(), true
	}
	return Mission{}, false
}

// AvailableMissions unions the missions reachable through unlocked territories
// with explicitly unlocked mission ids, deduplicated, resolved against the
// pool. Unknown ids are dropped silently.
func AvailableMissions(unlockedTerritories, unlockedMissions []string) []Mission {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, territory := range unlockedTerritories {
		for _, id := range TerritoryMissions[territory] {
			add(id)
		}
	}
	for _, id := range unlockedMissions {
		add(id)
	}

	missions := make([]Mission, 0, len(ids))
	for _, id := range ids {
		if m, ok := AllMissionsPool[id]; ok {
			missions = append(missions, m)
		}
	}
	return missions
}

// AvailableCraftingRecipes returns all recipes once the crafting station is
// built, and nothing before that.
func AvailableCraftingRecipes(craftingStationUnlocked bool) []CraftingRecipe {
	if !craftingStationUnlocked {
		return nil
	}
	recipes := make([]CraftingRecipe, 0, len(CraftingRecipes))
	for _, id := range craftingRecipeOrder {
		recipes = append(recipes, CraftingRecipes[id])
	}
	return recipes
}

var craftingRecipeOrder = []string{"craft001"}

// CurrentObjective returns the first objective in declared order that is not
// completed and whose dependency (if any) is; nil means fully progressed.
func CurrentObjective(completedIDs []string) *TownObjective {
	completed := make(map[string]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}
	for i := range TownObjectives {
		obj := TownObjectives[i]
		if completed[obj.ID] {
			continue
		}
		if obj.DependsOn != "" && !completed[obj.DependsOn] {
			continue
		}
		return &obj
	}
	return nil
}

// DefaultSkills returns a fresh copy of the starter skill set.
func DefaultSkills() map[string]SkillLevel {
	skills := make(map[string]SkillLevel, len(defaultSkillNames))
	for _, name := range defaultSkillNames {
		skills[name] = SkillLevel{Level: 1, XP: 0}
	}
	return skills
}

var defaultSkillNames = []string{
	"unarmed", "weapons", "archery", "traps", "logging",
	"mining", "farming", "gathering", "fishing",
}

// SkillLevel is the per-skill progression pair carried on a player.
type SkillLevel struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
}

// DefaultInventory returns a fresh copy of the starter inventory.
func DefaultInventory() map[string]int {
	return map[string]int{"stone": 2}
}

// DefaultTownUpgrades returns a fresh copy of the town upgrade flags.
func DefaultTownUpgrades() map[string]bool {
	return map[string]bool{
		"map_unlocked":              false,
		"combat_board_unlocked":     false,
		"crafting_station_unlocked": false,
	}
}

// DefaultTerritories returns the territories unlocked at town creation.
func DefaultTerritories() []string {
	return []string{"t1"}
}
