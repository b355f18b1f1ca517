package postgres

import "time"

/*
 * 'Player' defines a participant row. Created once by the join action and
 * updated exclusively through the per-game write-back queue. Transient state
 * (online flag, timers) is deliberately absent from this shape.
 */
type Player struct {
	ID     string `gorm:"primaryKey;size:50;not null"`
	GameID string `gorm:"size:21;not null;index:idx_players_game"` // FK towards games.id
	Name   string `gorm:"size:50;not null"`

	// Empty until the game starts, then "player" or "impostor", never changed again
	Role string `gorm:"size:20;default:''"`

	Status              string    `gorm:"size:10;not null;default:active"`
	IsObserver          bool      `gorm:"default:false"`
	IsGatheringSummoned bool      `gorm:"default:false"`
	CreatedAt           time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationship back to the owning game
	Game Game `gorm:"foreignKey:GameID"`
}
