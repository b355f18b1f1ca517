package sync

import (
	game_state "Molehunt/services/game_state"
	"log"
	"sync"

	models "Molehunt/models/postgres"

	"gorm.io/gorm"
)

/*
 * SyncManager is the asynchronous write-back path from the in-memory game
 * state to PostgreSQL. Enqueuing never blocks the realtime path. Writes for
 * the same game are strictly serialized (a new write chains after the prior
 * pending one, success or failure), so a vote resolution followed
 * immediately by a win-condition finalization can never interleave on the
 * wire. Writes for different games proceed independently.
 */
type SyncManager struct {
	db    *gorm.DB
	store *game_state.Store

	mu    sync.Mutex
	tails map[string]chan struct{} // gameID -> done channel of the last scheduled write

	// persist is swapped out in tests
	persist func(gameID string) error
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(db *gorm.DB, store *game_state.Store) *SyncManager {
	sm := &SyncManager{
		db:    db,
		store: store,
		tails: make(map[string]chan struct{}),
	}
	sm.persist = sm.persistGame
	return sm
}

// EnqueueGameSync schedules a write-back of the game's current cached state.
// The state is read at the time the write actually executes, not at enqueue
// time, so rapid successive mutations collapse into last-write-wins.
func (sm *SyncManager) EnqueueGameSync(gameID string) {
	sm.mu.Lock()
	prev := sm.tails[gameID]
	done := make(chan struct{})
	sm.tails[gameID] = done
	sm.mu.Unlock()

	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		if err := sm.persist(gameID); err != nil {
			// Non-fatal: the next successful write for this game self-heals
			log.Printf("[SYNC-ERROR] Error persisting game %s: %v", gameID, err)
		}
	}()
}

// persistGame writes the game's scalar fields and each player's persisted
// fields inside one transaction. Transient fields (online flag, vote
// session, timers) never reach the database.
//
// The cached Game is only ever mutated under its room lock, so the snapshot
// is taken under that same lock. The database write then runs lock-free on
// the copy: a handler can never observe a half-written game and the write
// can never observe a half-applied mutation.
func (sm *SyncManager) persistGame(gameID string) error {
	room := sm.store.Room(gameID)
	room.Lock()
	cached := sm.store.Get(gameID)
	if cached == nil {
		room.Unlock()
		log.Printf("[SYNC] Game %s not cached, nothing to persist", gameID)
		return nil
	}
	game := cached.Clone()
	room.Unlock()

	return sm.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Game{}).Where("id = ?", game.ID).Updates(map[string]interface{}{
			"status":          game.Status,
			"impostor_count":  game.ImpostorCount,
			"player_secret":   game.PlayerSecret,
			"impostor_secret": game.ImpostorSecret,
		}).Error
		if err != nil {
			return err
		}

		for _, p := range game.Players {
			err := tx.Model(&models.Player{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
				"name":                  p.Name,
				"role":                  p.Role,
				"status":                p.Status,
				"is_observer":           p.IsObserver,
				"is_gathering_summoned": p.IsGatheringSummoned,
			}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
