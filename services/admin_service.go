package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starscape/town-server/catalog"
	"github.com/starscape/town-server/models"
	"github.com/starscape/town-server/repository"
)

// AdminService holds the out-of-band privileged mutations. They bypass the
// mission state machine entirely: no cooldown, no Idle requirement. Every
// grant leaves a system-attributed log line.
type AdminService struct {
	Repo *repository.Repository
}

func NewAdminService(repo *repository.Repository) *AdminService {
	return &AdminService{Repo: repo}
}

// GiveResources merges the granted quantities into the player's inventory.
func (s *AdminService) GiveResources(userID string, resources map[string]int) (string, error) {
	if len(resources) == 0 {
		return "", models.ErrInvalidPayload
	}
	for _, amount := range resources {
		if amount <= 0 {
			return "", models.ErrInvalidAmount
		}
	}

	player, err := s.Repo.Player.FindByIDOrThrow(userID)
	if err != nil {
		return "", err
	}

	inventory := make(map[string]int, len(player.Inventory)+len(resources))
	for k, v := range player.Inventory {
		inventory[k] = v
	}
	for resource, amount := range resources {
		inventory[resource] += amount
	}
	if _, err := s.Repo.Player.Update(userID, models.PlayerUpdate{Inventory: inventory}); err != nil {
		return "", err
	}

	resourceList := formatResourceList(resources)
	if _, err := s.Repo.GameLog.Create(userID,
		fmt.Sprintf("🎁 Admin granted: %s", resourceList), models.LogTypeSystem); err != nil {
		return "", err
	}
	return fmt.Sprintf("Gave %s to player", resourceList), nil
}

// GiveCoins adds to the player's coin balance.
func (s *AdminService) GiveCoins(userID string, amount int) (string, error) {
	if amount <= 0 {
		return "", models.ErrInvalidAmount
	}

	player, err := s.Repo.Player.FindByIDOrThrow(userID)
	if err != nil {
		return "", err
	}

	coins := player.Coins + amount
	if _, err := s.Repo.Player.Update(userID, models.PlayerUpdate{Coins: &coins}); err != nil {
		return "", err
	}
	if _, err := s.Repo.GameLog.Create(userID,
		fmt.Sprintf("💰 Admin granted: %d coins", amount), models.LogTypeSystem); err != nil {
		return "", err
	}
	return fmt.Sprintf("Gave %d coins to player", amount), nil
}

// SetStats overwrites the given stat fields directly (not additive).
func (s *AdminService) SetStats(userID string, stats models.StatUpdates) (string, error) {
	if stats.Strength == nil && stats.Stamina == nil && stats.Coins == nil && stats.Reputation == nil {
		return "", models.ErrInvalidPayload
	}

	if _, err := s.Repo.Player.FindByIDOrThrow(userID); err != nil {
		return "", err
	}
	if _, err := s.Repo.Player.Update(userID, models.PlayerUpdate{
		Strength:   stats.Strength,
		Stamina:    stats.Stamina,
		Coins:      stats.Coins,
		Reputation: stats.Reputation,
	}); err != nil {
		return "", err
	}

	statsList := formatStatsList(stats)
	if _, err := s.Repo.GameLog.Create(userID,
		fmt.Sprintf("⚡ Admin set stats: %s", statsList), models.LogTypeSystem); err != nil {
		return "", err
	}
	return fmt.Sprintf("Set player stats: %s", statsList), nil
}

// GiveSkillXP grants XP to a named skill, creating it if absent. The admin
// path levels against the smaller per-level threshold.
func (s *AdminService) GiveSkillXP(userID, skill string, xp int) (string, error) {
	if skill == "" {
		return "", models.ErrInvalidPayload
	}
	if xp <= 0 {
		return "", models.ErrInvalidAmount
	}

	player, err := s.Repo.Player.FindByIDOrThrow(userID)
	if err != nil {
		return "", err
	}

	skills := applySkillXP(player.Skills, skill, xp, catalog.AdminXPThresholdPerLevel)
	if _, err := s.Repo.Player.Update(userID, models.PlayerUpdate{Skills: skills}); err != nil {
		return "", err
	}

	level := skills[skill].Level
	if _, err := s.Repo.GameLog.Create(userID,
		fmt.Sprintf("📚 Admin granted: %d XP in %s (Level %d)", xp, displayName(skill), level),
		models.LogTypeSystem); err != nil {
		return "", err
	}
	return fmt.Sprintf("Gave %d XP in %s. New level: %d", xp, skill, level), nil
}

// ListPlayers returns every player row for the operator panel.
func (s *AdminService) ListPlayers() ([]models.Player, error) {
	return s.Repo.Player.List()
}

func formatResourceList(resources map[string]int) string {
	names := make([]string, 0, len(resources))
	for resource := range resources {
		names = append(names, resource)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, resource := range names {
		parts[i] = fmt.Sprintf("%d %s", resources[resource], displayName(resource))
	}
	return strings.Join(parts, ", ")
}

func formatStatsList(stats models.StatUpdates) string {
	var parts []string
	if stats.Strength != nil {
		parts = append(parts, fmt.Sprintf("strength: %d", *stats.Strength))
	}
	if stats.Stamina != nil {
		parts = append(parts, fmt.Sprintf("stamina: %d", *stats.Stamina))
	}
	if stats.Coins != nil {
		parts = append(parts, fmt.Sprintf("coins: %d", *stats.Coins))
	}
	if stats.Reputation != nil {
		parts = append(parts, fmt.Sprintf("reputation: %d", *stats.Reputation))
	}
	return strings.Join(parts, ", ")
}
