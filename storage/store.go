// Package storage provides the two interchangeable persistence backends and
// the config-driven selection between them. Both implement Store; the engine
// never learns which one it got.
package storage

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/starscape/town-server/models"
)

// Store is the low-level persistence contract. Find methods return (nil, nil)
// when the row is absent; the repository layer turns that into NotFound.
type Store interface {
	FindPlayer(id string) (*models.Player, error)
	ListPlayers() ([]models.Player, error)
	InsertPlayer(p *models.Player) error
	UpdatePlayer(id string, update models.PlayerUpdate) (*models.Player, error)

	FindTown() (*models.Town, error)
	InsertTown(t *models.Town) error
	UpdateTown(id string, update models.TownUpdate) (*models.Town, error)

	// Merge-style town writes. These must apply against current state inside
	// the backend (transaction + row lock on the relational path) so that
	// concurrent contributors never lose each other's increments.
	AddToTreasury(id, resource string, amount int) (*models.Town, error)
	IncrementSlayCount(id, enemy string, delta int) (*models.Town, error)
	CompleteObjective(id string, completion models.ObjectiveCompletion) (*models.Town, error)

	FindGameLogs(playerID string, limit int) ([]models.GameLog, error)
	InsertGameLog(l *models.GameLog) error
	InsertGameLogs(ls []models.GameLog) error
	DeleteGameLogsByPlayer(playerID string) error

	// ClearAll wipes every table. Local-store escape hatch only; the gorm
	// backend refuses with models.ErrRemoteClearAll.
	ClearAll() error
}

const (
	ModePostgres = "postgres"
	ModeMemory   = "memory"
)

// Config carries everything backend selection and construction needs. Mode is
// the explicit switch; the sniff fields only matter when Mode is empty.
type Config struct {
	Mode        string
	DatabaseURL string
	LocalPath   string

	Env       string // e.g. "development"
	Hostname  string
	DeployEnv string // deployment classification, e.g. "preview", "production"
}

// ConfigFromEnv reads the selection inputs from the process environment.
func ConfigFromEnv() Config {
	return Config{
		Mode:        os.Getenv("STORAGE_MODE"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LocalPath:   os.Getenv("LOCAL_STORE_PATH"),
		Env:         os.Getenv("ENV"),
		Hostname:    os.Getenv("HOSTNAME"),
		DeployEnv:   os.Getenv("DEPLOY_ENV"),
	}
}

// DetectMode resolves which backend to use. An explicit Mode always wins; the
// environment sniff below it exists for parity with older deployments and
// defaults to postgres when ambiguous.
func DetectMode(cfg Config) string {
	switch cfg.Mode {
	case ModePostgres, ModeMemory:
		return cfg.Mode
	case "":
	default:
		log.Printf("⚠️  Unknown STORAGE_MODE %q, falling back to environment detection", cfg.Mode)
	}

	if cfg.Env == "development" {
		return ModeMemory
	}
	if isLoopback(cfg.Hostname) {
		return ModeMemory
	}
	if isLoopback(cfg.DatabaseURL) {
		return ModeMemory
	}
	if cfg.DeployEnv == "preview" || cfg.DeployEnv == "production" {
		return ModePostgres
	}
	return ModePostgres
}

func isLoopback(s string) bool {
	return strings.Contains(s, "localhost") || strings.Contains(s, "127.0.0.1")
}

// Open constructs the backend selected by cfg. Called once at process start;
// the same instance is passed down for the life of the process.
func Open(cfg Config) (Store, error) {
	switch mode := DetectMode(cfg); mode {
	case ModeMemory:
		log.Println("🏠 Using in-memory store")
		return NewMemoryStore(cfg.LocalPath)
	case ModePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("storage: postgres mode requires DATABASE_URL")
		}
		log.Println("🗄️  Using postgres store")
		return OpenGormStore(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("storage: unknown mode %q", mode)
	}
}
