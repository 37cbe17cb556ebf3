package repository

import (
	"log"
	"sync"

	"github.com/starscape/town-server/models"
)

// BatchRepository composes the entity repos into the two aggregate operations
// the request surface uses.
type BatchRepository struct {
	repo *Repository

	// initMu keeps concurrent initializeGame calls for the same process from
	// double-creating rows between the existence check and the insert.
	initMu sync.Mutex
}

// WelcomeMessage greets a brand-new player.
const WelcomeMessage = "Welcome to Starscape! Your journey begins."

// ResetMessage greets a player after a data reset.
const ResetMessage = "Game data reset! Welcome back to Starscape."

// GetGameState fetches player, town and recent logs concurrently. Player and
// town fetch failures fail the aggregate; a log fetch failure degrades to an
// empty log list since the list is decorative.
func (b *BatchRepository) GetGameState(userID string) (*models.GameState, error) {
	var (
		wg                 sync.WaitGroup
		player             *models.Player
		town               *models.Town
		logs               []models.GameLog
		playerErr, townErr error
		logsErr            error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		player, playerErr = b.repo.Player.FindByID(userID)
	}()
	go func() {
		defer wg.Done()
		town, townErr = b.repo.Town.Find()
	}()
	go func() {
		defer wg.Done()
		logs, logsErr = b.repo.GameLog.FindMany(userID, DefaultLogLimit)
	}()
	wg.Wait()

	if playerErr != nil {
		return nil, playerErr
	}
	if townErr != nil {
		return nil, townErr
	}
	if logsErr != nil {
		log.Printf("⚠️  Game state for %s: log fetch failed, continuing without logs: %v", userID, logsErr)
		logs = nil
	}

	return &models.GameState{Player: player, Town: town, Logs: logs}, nil
}

// InitializeGame idempotently ensures the player row and the singleton town
// exist, writing the welcome log only for a brand-new player, then returns
// the full state.
func (b *BatchRepository) InitializeGame(userID string) (*models.GameState, error) {
	b.initMu.Lock()
	player, err := b.repo.Player.FindByID(userID)
	if err != nil {
		b.initMu.Unlock()
		return nil, err
	}
	if player == nil {
		if _, err := b.repo.Player.Create(userID); err != nil {
			b.initMu.Unlock()
			return nil, err
		}
		if _, err := b.repo.GameLog.Create(userID, WelcomeMessage, models.LogTypeSystem); err != nil {
			b.initMu.Unlock()
			return nil, err
		}
	}
	if _, err := b.repo.Town.FindOrCreate(); err != nil {
		b.initMu.Unlock()
		return nil, err
	}
	b.initMu.Unlock()

	return b.GetGameState(userID)
}
