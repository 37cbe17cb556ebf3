package storage

import (
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/starscape/town-server/models"
)

// GormStore is the remote relational backend.
type GormStore struct {
	DB *gorm.DB
}

// OpenGormStore connects and migrates the three game tables.
func OpenGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&models.Player{},
		&models.Town{},
		&models.GameLog{},
	); err != nil {
		return nil, err
	}
	return &GormStore{DB: db}, nil
}

// NewGormStore wraps an existing connection; used when main owns migration.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) FindPlayer(id string) (*models.Player, error) {
	var p models.Player
	err := s.DB.Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) ListPlayers() ([]models.Player, error) {
	var players []models.Player
	if err := s.DB.Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (s *GormStore) InsertPlayer(p *models.Player) error {
	return s.DB.Create(p).Error
}

func (s *GormStore) UpdatePlayer(id string, update models.PlayerUpdate) (*models.Player, error) {
	var updated *models.Player
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Player
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&p).Error; err != nil {
			return err
		}
		update.Apply(&p)
		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		updated = &p
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *GormStore) FindTown() (*models.Town, error) {
	var t models.Town
	err := s.DB.Order("created_at ASC").First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) InsertTown(t *models.Town) error {
	return s.DB.Create(t).Error
}

func (s *GormStore) UpdateTown(id string, update models.TownUpdate) (*models.Town, error) {
	return s.mergeTown(id, func(t *models.Town) { update.Apply(t) })
}

func (s *GormStore) AddToTreasury(id, resource string, amount int) (*models.Town, error) {
	return s.mergeTown(id, func(t *models.Town) {
		if t.Treasury == nil {
			t.Treasury = map[string]int{}
		}
		t.Treasury[resource] += amount
	})
}

func (s *GormStore) IncrementSlayCount(id, enemy string, delta int) (*models.Town, error) {
	return s.mergeTown(id, func(t *models.Town) {
		if t.SlayCounts == nil {
			t.SlayCounts = map[string]int{}
		}
		t.SlayCounts[enemy] += delta
	})
}

func (s *GormStore) CompleteObjective(id string, completion models.ObjectiveCompletion) (*models.Town, error) {
	return s.mergeTown(id, func(t *models.Town) { completion.Apply(t) })
}

// mergeTown applies fn to the current row under a SELECT ... FOR UPDATE so
// simultaneous contributors from different players serialize at the database
// instead of overwriting each other's stale reads.
func (s *GormStore) mergeTown(id string, fn func(*models.Town)) (*models.Town, error) {
	var updated *models.Town
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var t models.Town
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&t).Error; err != nil {
			return err
		}
		fn(&t)
		if err := tx.Save(&t).Error; err != nil {
			return err
		}
		updated = &t
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *GormStore) FindGameLogs(playerID string, limit int) ([]models.GameLog, error) {
	var logs []models.GameLog
	q := s.DB.Where("player_id = ?", playerID).Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *GormStore) InsertGameLog(l *models.GameLog) error {
	return s.DB.Create(l).Error
}

func (s *GormStore) InsertGameLogs(ls []models.GameLog) error {
	if len(ls) == 0 {
		return nil
	}
	return s.DB.Create(&ls).Error
}

func (s *GormStore) DeleteGameLogsByPlayer(playerID string) error {
	return s.DB.Where("player_id = ?", playerID).Delete(&models.GameLog{}).Error
}

// ClearAll refuses: wiping the production database is never a code path.
func (s *GormStore) ClearAll() error {
	return models.ErrRemoteClearAll
}
