package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/starscape/town-server/models"
)

// DefaultLocalPath is the single fixed key the local backend persists under.
const DefaultLocalPath = "starscape-game-data.json"

// MemoryStore is the local backend: process maps behind one mutex, serialized
// to a durable JSON document after every mutation and reloaded at startup.
// An empty path disables persistence (pure in-memory, used by tests).
type MemoryStore struct {
	mu      sync.Mutex
	players map[string]*models.Player
	towns   map[string]*models.Town
	logs    []models.GameLog
	path    string
}

// storedDocument is the on-disk shape. encoding/json round-trips the
// time.Time fields through RFC 3339 strings, so reloads re-hydrate instants.
type storedDocument struct {
	Players  []models.Player  `json:"players"`
	Towns    []models.Town    `json:"towns"`
	GameLogs []models.GameLog `json:"gameLogs"`
}

func NewMemoryStore(path string) (*MemoryStore, error) {
	s := &MemoryStore{
		players: make(map[string]*models.Player),
		towns:   make(map[string]*models.Town),
		path:    path,
	}
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load local store: %w", err)
	}
	var doc storedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		// A corrupt document is not worth crashing over; start fresh.
		log.Printf("⚠️  Local store at %s is unreadable, starting empty: %v", path, err)
		return s, nil
	}
	for i := range doc.Players {
		p := doc.Players[i]
		s.players[p.ID] = &p
	}
	for i := range doc.Towns {
		t := doc.Towns[i]
		s.towns[t.ID] = &t
	}
	s.logs = doc.GameLogs
	return s, nil
}

// persist re-serializes the full document. Callers hold s.mu.
func (s *MemoryStore) persist() {
	if s.path == "" {
		return
	}
	doc := storedDocument{
		Players:  make([]models.Player, 0, len(s.players)),
		Towns:    make([]models.Town, 0, len(s.towns)),
		GameLogs: s.logs,
	}
	for _, p := range s.players {
		doc.Players = append(doc.Players, *p)
	}
	for _, t := range s.towns {
		doc.Towns = append(doc.Towns, *t)
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Printf("⚠️  Failed to serialize local store: %v", err)
		return
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		log.Printf("⚠️  Failed to write local store %s: %v", s.path, err)
	}
}

func (s *MemoryStore) FindPlayer(id string) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players[id].Clone(), nil
}

func (s *MemoryStore) ListPlayers() ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	players := make([]models.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, *p.Clone())
	}
	return players, nil
}

func (s *MemoryStore) InsertPlayer(p *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.players[p.ID]; exists {
		return fmt.Errorf("player %s already exists", p.ID)
	}
	now := time.Now()
	cp := p.Clone()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	s.players[cp.ID] = cp
	s.persist()
	return nil
}

func (s *MemoryStore) UpdatePlayer(id string, update models.PlayerUpdate) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return nil, nil
	}
	update.Apply(p)
	p.UpdatedAt = time.Now()
	s.persist()
	return p.Clone(), nil
}

func (s *MemoryStore) FindTown() (*models.Town, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var oldest *models.Town
	for _, t := range s.towns {
		if oldest == nil || t.CreatedAt.Before(oldest.CreatedAt) {
			oldest = t
		}
	}
	return oldest.Clone(), nil
}

func (s *MemoryStore) InsertTown(t *models.Town) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.towns[t.ID]; exists {
		return fmt.Errorf("town %s already exists", t.ID)
	}
	now := time.Now()
	cp := t.Clone()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	s.towns[cp.ID] = cp
	s.persist()
	return nil
}

func (s *MemoryStore) UpdateTown(id string, update models.TownUpdate) (*models.Town, error) {
	return s.mergeTown(id, func(t *models.Town) { update.Apply(t) })
}

func (s *MemoryStore) AddToTreasury(id, resource string, amount int) (*models.Town, error) {
	return s.mergeTown(id, func(t *models.Town) {
		if t.Treasury == nil {
			t.Treasury = map[string]int{}
		}
		t.Treasury[resource] += amount
	})
}

func (s *MemoryStore) IncrementSlayCount(id, enemy string, delta int) (*models.Town, error) {
	return s.mergeTown(id, func(t *models.Town) {
		if t.SlayCounts == nil {
			t.SlayCounts = map[string]int{}
		}
		t.SlayCounts[enemy] += delta
	})
}

func (s *MemoryStore) CompleteObjective(id string, completion models.ObjectiveCompletion) (*models.Town, error) {
	return s.mergeTown(id, func(t *models.Town) { completion.Apply(t) })
}

func (s *MemoryStore) mergeTown(id string, fn func(*models.Town)) (*models.Town, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.towns[id]
	if !ok {
		return nil, nil
	}
	fn(t)
	t.UpdatedAt = time.Now()
	s.persist()
	return t.Clone(), nil
}

func (s *MemoryStore) FindGameLogs(playerID string, limit int) ([]models.GameLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var logs []models.GameLog
	// Appended in arrival order; walk backwards for newest-first.
	for i := len(s.logs) - 1; i >= 0; i-- {
		if s.logs[i].PlayerID != playerID {
			continue
		}
		logs = append(logs, s.logs[i])
		if limit > 0 && len(logs) == limit {
			break
		}
	}
	return logs, nil
}

func (s *MemoryStore) InsertGameLog(l *models.GameLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLog(l)
	s.persist()
	return nil
}

func (s *MemoryStore) InsertGameLogs(ls []models.GameLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range ls {
		s.appendLog(&ls[i])
	}
	s.persist()
	return nil
}

func (s *MemoryStore) appendLog(l *models.GameLog) {
	cp := *l
	if cp.Timestamp.IsZero() {
		cp.Timestamp = time.Now()
	}
	s.logs = append(s.logs, cp)
}

func (s *MemoryStore) DeleteGameLogsByPlayer(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.logs[:0]
	for _, l := range s.logs {
		if l.PlayerID != playerID {
			kept = append(kept, l)
		}
	}
	s.logs = kept
	s.persist()
	return nil
}

func (s *MemoryStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make(map[string]*models.Player)
	s.towns = make(map[string]*models.Town)
	s.logs = nil
	s.persist()
	return nil
}
