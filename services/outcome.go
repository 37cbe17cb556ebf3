package services

import (
	"fmt"
	"strings"

	"github.com/starscape/town-server/catalog"
	"github.com/starscape/town-server/models"
)

// outcome is what a mission resolution produced before any state is written.
type outcome struct {
	resultsText string
	rewards     map[string]int
	xpGained    int
	success     bool
	slainEnemy  string
}

// resolveOutcome computes a mission's result from the snapshot and the
// player's stats. Pure: the random draws come in as arguments (combatRoll
// uniform in [0,1), coinRoll uniform in 1..5), so the contest math is testable
// without the engine around it.
func resolveOutcome(m *catalog.Mission, p *models.Player, combatRoll float64, coinRoll int) (outcome, error) {
	switch m.Type {
	case catalog.MissionGathering:
		spec := m.Gathering
		if spec == nil {
			return outcome{}, fmt.Errorf("mission %s: gathering fields missing", m.ID)
		}
		return outcome{
			resultsText: fmt.Sprintf("You successfully gathered %d %s.", spec.Amount, displayName(spec.Resource)),
			rewards:     map[string]int{spec.Resource: spec.Amount},
			xpGained:    1,
			success:     true,
		}, nil

	case catalog.MissionCombat:
		spec := m.Combat
		if spec == nil {
			return outcome{}, fmt.Errorf("mission %s: combat fields missing", m.ID)
		}
		// Win chance rises with strength and falls with enemy level.
		strength := float64(p.Strength)
		if combatRoll < strength/(strength+float64(m.Level*3)) {
			return outcome{
				resultsText: fmt.Sprintf("You defeated the %s and found %d coins!", spec.Enemy, coinRoll),
				rewards:     map[string]int{"coins": coinRoll},
				xpGained:    1,
				success:     true,
				slainEnemy:  spec.Enemy,
			}, nil
		}
		return outcome{
			resultsText: fmt.Sprintf("You were defeated by the %s and fled back to town.", spec.Enemy),
			rewards:     map[string]int{},
		}, nil

	case catalog.MissionCrafting:
		spec := m.Crafting
		if spec == nil {
			return outcome{}, fmt.Errorf("mission %s: crafting fields missing", m.ID)
		}
		for item, amount := range spec.Cost {
			if p.Inventory[item] < amount {
				return outcome{
					resultsText: fmt.Sprintf("You don't have the resources to craft a %s.", m.Name),
					rewards:     map[string]int{},
				}, nil
			}
		}
		rewards := make(map[string]int, len(spec.Result))
		for item, amount := range spec.Result {
			rewards[item] = amount
		}
		return outcome{
			resultsText: fmt.Sprintf("You successfully crafted a %s.", m.Name),
			rewards:     rewards,
			xpGained:    5,
			success:     true,
		}, nil

	default:
		return outcome{}, fmt.Errorf("mission %s: unknown type %q", m.ID, m.Type)
	}
}

// applySkillXP adds xp to a skill (creating it at level 1 / xp 0 if absent)
// and runs the leveling loop against the given per-level threshold. A single
// grant can cause multiple level-ups.
func applySkillXP(skills map[string]catalog.SkillLevel, skill string, xp, threshold int) map[string]catalog.SkillLevel {
	updated := make(map[string]catalog.SkillLevel, len(skills)+1)
	for k, v := range skills {
		updated[k] = v
	}
	s, ok := updated[skill]
	if !ok {
		s = catalog.SkillLevel{Level: 1, XP: 0}
	}
	s.XP += xp
	for s.XP >= s.Level*threshold {
		s.XP -= s.Level * threshold
		s.Level++
	}
	updated[skill] = s
	return updated
}

// displayName renders an item key for humans: underscores become spaces.
func displayName(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}
