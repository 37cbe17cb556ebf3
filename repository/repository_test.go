package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starscape/town-server/cache"
	"github.com/starscape/town-server/models"
	"github.com/starscape/town-server/storage"
)

func newTestRepo(t *testing.T) (*Repository, *storage.MemoryStore) {
	t.Helper()
	store, err := storage.NewMemoryStore("")
	require.NoError(t, err)
	return New(store, cache.New()), store
}

func TestPlayerFindByIDOrThrow(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Player.FindByIDOrThrow("ghost")
	assert.ErrorIs(t, err, models.ErrPlayerNotFound)

	_, err = repo.Player.Create("u1")
	require.NoError(t, err)
	p, err := repo.Player.FindByIDOrThrow("u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
}

func TestPlayerReadThroughCache(t *testing.T) {
	repo, store := newTestRepo(t)
	_, err := repo.Player.Create("u1")
	require.NoError(t, err)

	// Writing behind the repository's back: the cached copy masks it.
	coins := 1000
	_, err = store.UpdatePlayer("u1", models.PlayerUpdate{Coins: &coins})
	require.NoError(t, err)

	p, err := repo.Player.FindByID("u1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Coins, "cached value expected until invalidation")

	// A repository write invalidates and repopulates.
	newCoins := 25
	_, err = repo.Player.Update("u1", models.PlayerUpdate{Coins: &newCoins})
	require.NoError(t, err)
	p, err = repo.Player.FindByID("u1")
	require.NoError(t, err)
	assert.Equal(t, 25, p.Coins)
}

func TestPlayerUpdateAbsent(t *testing.T) {
	repo, _ := newTestRepo(t)
	coins := 5
	_, err := repo.Player.Update("ghost", models.PlayerUpdate{Coins: &coins})
	assert.ErrorIs(t, err, models.ErrPlayerNotFound)
}

func TestPlayerReset(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Player.Create("u1")
	require.NoError(t, err)

	coins := 500
	strength := 20
	_, err = repo.Player.Update("u1", models.PlayerUpdate{Coins: &coins, Strength: &strength})
	require.NoError(t, err)

	require.NoError(t, repo.Player.Reset("u1"))
	p, err := repo.Player.FindByIDOrThrow("u1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Coins)
	assert.Equal(t, 5, p.Strength)
	assert.Equal(t, map[string]int{"stone": 2}, p.Inventory)
	assert.Nil(t, p.CurrentMission)
	assert.True(t, p.LastActionTimestamp.Equal(time.Unix(0, 0).UTC()),
		"reset restores the never-acted sentinel")
}

func TestTownFindOrCreate(t *testing.T) {
	repo, _ := newTestRepo(t)

	town, err := repo.Town.Find()
	require.NoError(t, err)
	assert.Nil(t, town, "no town before first access")

	town, err = repo.Town.FindOrCreate()
	require.NoError(t, err)
	require.NotNil(t, town)
	assert.Equal(t, "Starscape Village", town.Name)
	assert.Equal(t, []string{"t1"}, town.UnlockedTerritories)

	again, err := repo.Town.FindOrCreate()
	require.NoError(t, err)
	assert.Equal(t, town.ID, again.ID, "singleton, not a second row")
}

func TestTownFindOrThrow(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Town.FindOrThrow()
	assert.ErrorIs(t, err, models.ErrTownNotFound)
}

func TestGameLogCreateAndFind(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.GameLog.Create("u1", "first", models.LogTypeAction)
	require.NoError(t, err)
	_, err = repo.GameLog.Create("u1", "second", models.LogTypeSystem)
	require.NoError(t, err)

	logs, err := repo.GameLog.FindMany("u1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "second", logs[0].Message, "newest first")
	assert.NotEmpty(t, logs[0].ID)

	require.NoError(t, repo.GameLog.DeleteByPlayer("u1"))
	logs, err = repo.GameLog.FindMany("u1", 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestBatchInitializeGame(t *testing.T) {
	repo, _ := newTestRepo(t)

	state, err := repo.Batch.InitializeGame("u1")
	require.NoError(t, err)
	require.NotNil(t, state.Player)
	require.NotNil(t, state.Town)
	require.Len(t, state.Logs, 1)
	assert.Equal(t, WelcomeMessage, state.Logs[0].Message)
	assert.Equal(t, models.LogTypeSystem, state.Logs[0].Type)

	// Idempotent: a second call creates nothing new.
	state, err = repo.Batch.InitializeGame("u1")
	require.NoError(t, err)
	assert.Len(t, state.Logs, 1, "no duplicate welcome log")
}

func TestBatchInitializeGameConcurrent(t *testing.T) {
	repo, store := newTestRepo(t)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := repo.Batch.InitializeGame("u1")
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}

	players, err := store.ListPlayers()
	require.NoError(t, err)
	assert.Len(t, players, 1, "concurrent initialization must not duplicate the player")

	logs, err := repo.GameLog.FindMany("u1", 0)
	require.NoError(t, err)
	assert.Len(t, logs, 1, "exactly one welcome log")
}

func TestBatchGetGameStateBeforeInit(t *testing.T) {
	repo, _ := newTestRepo(t)

	state, err := repo.Batch.GetGameState("u1")
	require.NoError(t, err)
	assert.Nil(t, state.Player)
	assert.Nil(t, state.Town)
	assert.Empty(t, state.Logs)
}

func TestRoundTripAfterInvalidation(t *testing.T) {
	repo, _ := newTestRepo(t)
	created, err := repo.Player.Create("u1")
	require.NoError(t, err)

	// Force the next read through storage rather than the cache.
	repo.Player.cache.Delete(cache.PlayerKey("u1"))

	read, err := repo.Player.FindByIDOrThrow("u1")
	require.NoError(t, err)
	assert.Equal(t, created.Inventory, read.Inventory)
	assert.Equal(t, created.Skills, read.Skills)
	assert.True(t, created.LastActionTimestamp.Equal(read.LastActionTimestamp))
}
