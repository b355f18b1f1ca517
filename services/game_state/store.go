package game_state

import (
	models "Molehunt/models/postgres"
	"log"
	"sync"

	"gorm.io/gorm"
)

/*
 * Store is the single source of truth for every active game. It is an
 * injected component (created in main, passed down to handlers), never a
 * package-level singleton. Finished games stay cached: no eviction policy
 * is needed at game-facilitator scale.
 *
 * The store also hands out the per-room mutex that serializes every
 * mutating operation (inbound events and timer callbacks alike) for a
 * given game id. Different games proceed fully in parallel.
 */
type Store struct {
	db *gorm.DB

	mu    sync.RWMutex
	games map[string]*Game
	rooms map[string]*sync.Mutex
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:    db,
		games: make(map[string]*Game),
		rooms: make(map[string]*sync.Mutex),
	}
}

// Room returns the serialization mutex for a game id. Callers must hold it
// across any read-modify-write of the corresponding Game.
func (s *Store) Room(gameID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, exists := s.rooms[gameID]
	if !exists {
		room = &sync.Mutex{}
		s.rooms[gameID] = room
	}
	return room
}

// Get is the cache-only read used on the hot path. Never touches PostgreSQL.
func (s *Store) Get(gameID string) *Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.games[gameID]
}

// Update replaces the cached value. Callers own full-state replacement
// semantics, there is no partial merge.
func (s *Store) Update(gameID string, game *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[gameID] = game
}

// Load returns the cached game if present, otherwise hydrates it from
// PostgreSQL (game row plus players in join order), augments every player
// with Online=true and caches the result. Returns gorm.ErrRecordNotFound
// for unknown game ids.
func (s *Store) Load(gameID string) (*Game, error) {
	if game := s.Get(gameID); game != nil {
		return game, nil
	}

	var record models.Game
	err := s.db.Preload("Players", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ?", gameID).First(&record).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("[STORE-ERROR] Error loading game %s: %v", gameID, err)
		}
		return nil, err
	}

	game := &Game{
		ID:             record.ID,
		Status:         record.Status,
		ImpostorCount:  record.ImpostorCount,
		PlayerSecret:   record.PlayerSecret,
		ImpostorSecret: record.ImpostorSecret,
		CreatedAt:      record.CreatedAt,
	}
	for _, p := range record.Players {
		game.Players = append(game.Players, &Player{
			ID:                  p.ID,
			GameID:              p.GameID,
			Name:                p.Name,
			Role:                p.Role,
			Status:              p.Status,
			IsObserver:          p.IsObserver,
			IsGatheringSummoned: p.IsGatheringSummoned,
			CreatedAt:           p.CreatedAt,
			Online:              true,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another caller may have hydrated the same game while we were querying
	if cached, exists := s.games[gameID]; exists {
		return cached, nil
	}
	s.games[gameID] = game
	log.Printf("[STORE] Hydrated game %s with %d players", gameID, len(game.Players))
	return game, nil
}
