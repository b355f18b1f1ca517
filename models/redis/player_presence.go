package redis

type PlayerStatus string

const (
	StatusOnline  PlayerStatus = "online"
	StatusOffline PlayerStatus = "offline"
)

// PlayerPresence is a best-effort mirror of a participant's connection state,
// written by the gateway. The authoritative online flag lives in the in-memory
// game state; this exists so ops tooling can inspect who is connected.
type PlayerPresence struct {
	PlayerID string       `json:"player_id"`
	GameID   string       `json:"game_id"`
	Status   PlayerStatus `json:"status"`
	LastPing int64        `json:"last_ping"` // Unix timestamp
	SocketID string       `json:"socket_id"` // For direct messaging
}
