package services

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starscape/town-server/catalog"
	"github.com/starscape/town-server/models"
	"github.com/starscape/town-server/repository"
)

// GameService is the mission and progression engine. Per player it is a
// two-state machine: Idle (no current mission) and OnMission.
type GameService struct {
	Repo *repository.Repository

	// Cooldown gates both how soon after an action a new mission may start
	// and how soon a started mission may resolve.
	Cooldown time.Duration

	locks *playerLocks

	// Random draws, swappable in tests.
	combatRoll func() float64
	coinRoll   func() int
}

func NewGameService(repo *repository.Repository) *GameService {
	return &GameService{
		Repo:       repo,
		Cooldown:   catalog.Cooldown,
		locks:      newPlayerLocks(),
		combatRoll: rand.Float64,
		coinRoll:   func() int { return rand.Intn(5) + 1 },
	}
}

// StartMission moves the player Idle → OnMission, snapshotting the catalog
// entry. For combat missions a caller-chosen skill may replace the default.
func (s *GameService) StartMission(userID, missionID, combatSkill string) error {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	player, err := s.Repo.Player.FindByIDOrThrow(userID)
	if err != nil {
		return err
	}
	if time.Since(player.LastActionTimestamp) < s.Cooldown {
		return models.ErrCooldownActive
	}
	if player.CurrentMission != nil {
		return models.ErrAlreadyOnMission
	}

	mission, ok := catalog.MissionByID(missionID)
	if !ok {
		return models.ErrMissionNotFound
	}
	if combatSkill != "" && mission.Type == catalog.MissionCombat {
		mission.Skill = combatSkill
	}

	if err := s.Repo.Player.UpdateMission(userID, &mission); err != nil {
		return err
	}
	_, err = s.Repo.GameLog.Create(userID,
		fmt.Sprintf("You have started: %s.", mission.Name), models.LogTypeAction)
	return err
}

// ResolveMission moves the player OnMission → Idle, computing the outcome,
// landing rewards and XP, and re-evaluating town objectives. Invoking it while
// Idle fails with NoActiveMission and mutates nothing.
func (s *GameService) ResolveMission(userID string) (*models.MissionResult, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	player, err := s.Repo.Player.FindByIDOrThrow(userID)
	if err != nil {
		return nil, err
	}
	mission := player.CurrentMission
	if mission == nil {
		return nil, models.ErrNoActiveMission
	}
	if time.Since(player.LastActionTimestamp) < s.Cooldown {
		return nil, models.ErrMissionInProgress
	}

	out, err := resolveOutcome(mission, player, s.combatRoll(), s.coinRoll())
	if err != nil {
		return nil, err
	}

	coins := player.Coins + out.rewards["coins"]
	inventory := make(map[string]int, len(player.Inventory))
	for k, v := range player.Inventory {
		inventory[k] = v
	}
	if mission.Type == catalog.MissionCrafting && out.success {
		for item, amount := range mission.Crafting.Cost {
			inventory[item] -= amount
		}
	}
	for item, quantity := range out.rewards {
		if item != "coins" {
			inventory[item] += quantity
		}
	}

	skills := player.Skills
	var xpGained *models.XPGain
	if out.xpGained > 0 && mission.Skill != "" {
		skills = applySkillXP(skills, mission.Skill, out.xpGained, catalog.XPThresholdPerLevel)
		xpGained = &models.XPGain{Skill: mission.Skill, Amount: out.xpGained}
	}

	completed := player.MissionsCompleted
	if out.success {
		completed++
	}

	if _, err := s.Repo.Player.CompleteMission(userID, repository.MissionCompletion{
		Coins:             coins,
		Inventory:         inventory,
		Skills:            skills,
		MissionsCompleted: completed,
	}); err != nil {
		return nil, err
	}

	if out.slainEnemy != "" {
		town, err := s.Repo.Town.FindOrCreate()
		if err != nil {
			return nil, err
		}
		if _, err := s.Repo.Town.RecordSlay(town.ID, out.slainEnemy); err != nil {
			return nil, err
		}
	}

	if _, err := s.Repo.GameLog.Create(userID, out.resultsText, models.LogTypeAction); err != nil {
		return nil, err
	}

	// A combat win may have just satisfied the active slay objective.
	if _, err := s.CheckAndCompleteObjectives(); err != nil {
		log.Printf("⚠️  Objective check after resolve for %s failed: %v", userID, err)
	}

	return &models.MissionResult{
		ResultsText: out.resultsText,
		Rewards:     out.rewards,
		XPGained:    xpGained,
		Success:     out.success,
	}, nil
}

// ContributeToTown donates resources from inventory at the fixed 1:1:1
// resource → coin → reputation rate, then re-evaluates objectives.
func (s *GameService) ContributeToTown(userID, resourceName string, amount int) error {
	if amount <= 0 {
		return models.ErrInvalidAmount
	}

	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	player, err := s.Repo.Player.FindByIDOrThrow(userID)
	if err != nil {
		return err
	}
	if player.Inventory[resourceName] < amount {
		return models.ErrInsufficientResources
	}

	inventory := make(map[string]int, len(player.Inventory))
	for k, v := range player.Inventory {
		inventory[k] = v
	}
	inventory[resourceName] -= amount

	if err := s.Repo.Player.ContributeResources(userID, inventory,
		player.Coins+amount, player.Reputation+amount); err != nil {
		return err
	}

	town, err := s.Repo.Town.FindOrCreate()
	if err != nil {
		return err
	}
	if _, err := s.Repo.Town.AddToTreasury(town.ID, resourceName, amount); err != nil {
		return err
	}

	if _, err := s.Repo.GameLog.Create(userID,
		fmt.Sprintf("You contributed %d %s, receiving %d coins and %d reputation.",
			amount, displayName(resourceName), amount, amount),
		models.LogTypeAction); err != nil {
		return err
	}

	if _, err := s.CheckAndCompleteObjectives(); err != nil {
		log.Printf("⚠️  Objective check after contribution from %s failed: %v", userID, err)
	}
	return nil
}

var titleCaser = cases.Title(language.English)

// CheckAndCompleteObjectives tests the current town objective and, when its
// requirements are met, records completion and applies unlocks. Idempotent:
// a completed objective stops being current, so re-running is a no-op.
func (s *GameService) CheckAndCompleteObjectives() (*models.ObjectiveCheck, error) {
	town, err := s.Repo.Town.FindOrThrow()
	if err != nil {
		return nil, err
	}

	objective := catalog.CurrentObjective(town.CompletedObjectives)
	if objective == nil {
		return &models.ObjectiveCheck{Completed: false}, nil
	}

	met := false
	switch objective.Type {
	case catalog.ObjectiveContribution:
		met = requirementsMet(objective.Requirements, town.Treasury)
	case catalog.ObjectiveSlay:
		met = requirementsMet(objective.Requirements, town.SlayCounts)
	}
	if !met {
		return &models.ObjectiveCheck{Completed: false}, nil
	}

	if _, err := s.Repo.Town.CompleteObjective(town.ID, models.ObjectiveCompletion{
		ObjectiveID:    objective.ID,
		UpgradeFlags:   objective.Unlocks.Upgrades,
		UnlockMissions: objective.Unlocks.Missions,
	}); err != nil {
		return nil, err
	}

	entries := []repository.LogEntry{{
		PlayerID: models.SystemPlayerID,
		Message:  fmt.Sprintf("🎉 Town Objective Complete: %s!", objective.Name),
		Type:     models.LogTypeSystem,
	}}
	for _, upgrade := range objective.Unlocks.Upgrades {
		entries = append(entries, repository.LogEntry{
			PlayerID: models.SystemPlayerID,
			Message:  fmt.Sprintf("🔓 Unlocked: %s", titleCaser.String(strings.ReplaceAll(upgrade, "_", " "))),
			Type:     models.LogTypeSystem,
		})
	}
	if _, err := s.Repo.GameLog.CreateMany(entries); err != nil {
		return nil, err
	}

	log.Printf("🏆 Town objective completed: %s", objective.ID)
	return &models.ObjectiveCheck{
		Completed: true,
		Objective: objective.Name,
		Unlocks:   &objective.Unlocks,
	}, nil
}

// ResetGameData restores the player, the town and the player's log to starter
// state.
func (s *GameService) ResetGameData(userID string) error {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.Repo.Player.Reset(userID); err != nil {
		return err
	}
	town, err := s.Repo.Town.Find()
	if err != nil {
		return err
	}
	if town != nil {
		if err := s.Repo.Town.Reset(town.ID); err != nil {
			return err
		}
	}
	if err := s.Repo.GameLog.DeleteByPlayer(userID); err != nil {
		return err
	}
	_, err = s.Repo.GameLog.Create(userID, repository.ResetMessage, models.LogTypeSystem)
	return err
}

func requirementsMet(requirements, have map[string]int) bool {
	for key, needed := range requirements {
		if have[key] < needed {
			return false
		}
	}
	return true
}
