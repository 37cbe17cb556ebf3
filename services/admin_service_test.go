package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starscape/town-server/cache"
	"github.com/starscape/town-server/catalog"
	"github.com/starscape/town-server/models"
	"github.com/starscape/town-server/repository"
	"github.com/starscape/town-server/storage"
)

func newTestAdmin(t *testing.T) *AdminService {
	t.Helper()
	store, err := storage.NewMemoryStore("")
	require.NoError(t, err)
	svc := NewAdminService(repository.New(store, cache.New()))
	_, err = svc.Repo.Player.Create("u1")
	require.NoError(t, err)
	return svc
}

func TestGiveResources(t *testing.T) {
	svc := newTestAdmin(t)

	msg, err := svc.GiveResources("u1", map[string]int{"sturdy_wood": 3, "berries": 2})
	require.NoError(t, err)
	assert.Equal(t, "Gave 2 berries, 3 sturdy wood to player", msg)

	player, err := svc.Repo.Player.FindByIDOrThrow("u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"stone": 2, "sturdy_wood": 3, "berries": 2}, player.Inventory)

	logs, err := svc.Repo.GameLog.FindMany("u1", 0)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, "🎁 Admin granted: 2 berries, 3 sturdy wood", logs[0].Message)
	assert.Equal(t, models.LogTypeSystem, logs[0].Type)
}

func TestGiveResourcesValidation(t *testing.T) {
	svc := newTestAdmin(t)

	_, err := svc.GiveResources("u1", nil)
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
	_, err = svc.GiveResources("u1", map[string]int{"stone": 0})
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
	_, err = svc.GiveResources("u1", map[string]int{"stone": -4})
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
	_, err = svc.GiveResources("ghost", map[string]int{"stone": 1})
	assert.ErrorIs(t, err, models.ErrPlayerNotFound)
}

func TestGiveCoins(t *testing.T) {
	svc := newTestAdmin(t)

	msg, err := svc.GiveCoins("u1", 50)
	require.NoError(t, err)
	assert.Equal(t, "Gave 50 coins to player", msg)

	player, err := svc.Repo.Player.FindByIDOrThrow("u1")
	require.NoError(t, err)
	assert.Equal(t, 60, player.Coins)

	_, err = svc.GiveCoins("u1", 0)
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestSetStats(t *testing.T) {
	svc := newTestAdmin(t)

	strength := 12
	coins := 3
	msg, err := svc.SetStats("u1", models.StatUpdates{Strength: &strength, Coins: &coins})
	require.NoError(t, err)
	assert.Equal(t, "Set player stats: strength: 12, coins: 3", msg)

	// Overwrite, not additive; untouched fields keep their values.
	player, err := svc.Repo.Player.FindByIDOrThrow("u1")
	require.NoError(t, err)
	assert.Equal(t, 12, player.Strength)
	assert.Equal(t, 3, player.Coins)
	assert.Equal(t, 5, player.Stamina)

	_, err = svc.SetStats("u1", models.StatUpdates{})
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
}

func TestGiveSkillXP(t *testing.T) {
	svc := newTestAdmin(t)

	// 35 XP against the level*10 admin threshold lands at level 3 with 5 over.
	msg, err := svc.GiveSkillXP("u1", "unarmed", 35)
	require.NoError(t, err)
	assert.Equal(t, "Gave 35 XP in unarmed. New level: 3", msg)

	player, err := svc.Repo.Player.FindByIDOrThrow("u1")
	require.NoError(t, err)
	assert.Equal(t, catalog.SkillLevel{Level: 3, XP: 5}, player.Skills["unarmed"])

	logs, err := svc.Repo.GameLog.FindMany("u1", 0)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, "📚 Admin granted: 35 XP in unarmed (Level 3)", logs[0].Message)
}

func TestGiveSkillXPCreatesSkill(t *testing.T) {
	svc := newTestAdmin(t)

	_, err := svc.GiveSkillXP("u1", "alchemy", 4)
	require.NoError(t, err)

	player, err := svc.Repo.Player.FindByIDOrThrow("u1")
	require.NoError(t, err)
	assert.Equal(t, catalog.SkillLevel{Level: 1, XP: 4}, player.Skills["alchemy"])
}

func TestGiveSkillXPValidation(t *testing.T) {
	svc := newTestAdmin(t)

	_, err := svc.GiveSkillXP("u1", "", 5)
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
	_, err = svc.GiveSkillXP("u1", "unarmed", 0)
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestListPlayers(t *testing.T) {
	svc := newTestAdmin(t)
	_, err := svc.Repo.Player.Create("u2")
	require.NoError(t, err)

	players, err := svc.ListPlayers()
	require.NoError(t, err)
	assert.Len(t, players, 2)
}
