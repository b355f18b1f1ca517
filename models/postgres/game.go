package postgres

import (
	"math/rand"
	"time"

	"gorm.io/gorm"
)

/*
 * 'Game' defines the structure of a Molehunt game as stored in PostgreSQL.
 * Only scalar fields live here: the live in-memory representation (online
 * flags, active vote session) is owned by services/game_state and is never
 * persisted.
 */
type Game struct {
	ID             string    `gorm:"primaryKey;size:21;not null"`
	Status         string    `gorm:"size:20;not null;default:lobby;index:idx_games_status"`
	ImpostorCount  int       `gorm:"not null"`
	PlayerSecret   string    `gorm:"not null"`
	ImpostorSecret string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationship with the participants of the game
	Players []*Player `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Random game id generation
const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateGameID(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// Ensure the id is trully unique. Short ids are fine at party-game scale,
// we just loop until an unused one comes up.
func (g *Game) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID != "" {
		return nil
	}
	for {
		newID := generateGameID(6) // Example: "aB3dE9"
		var existing Game
		if err := tx.Where("id = ?", newID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				g.ID = newID
				return nil
			}
			return err
		}
		// Otherwise, loop again to generate a new unique ID
	}
}
