package redis

import "time"

// ChatMessage represents a message in the game chat
type ChatMessage struct {
	GameID    string    `json:"game_id"`
	PlayerID  string    `json:"player_id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
