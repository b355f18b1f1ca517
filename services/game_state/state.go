package game_state

import (
	game_constants "Molehunt/constants/game"
	"time"
)

// Player is the live, in-memory view of a participant. It carries every
// persisted field plus the transient Online flag. Timer handles are NOT
// stored here, they belong to the game_flow director.
type Player struct {
	ID                  string    `json:"id"`
	GameID              string    `json:"gameId"`
	Name                string    `json:"name"`
	Role                string    `json:"role"`
	Status              string    `json:"status"`
	IsObserver          bool      `json:"isObserver"`
	IsGatheringSummoned bool      `json:"isGatheringSummoned"`
	CreatedAt           time.Time `json:"createdAt"`
	Online              bool      `json:"online"`
}

// VoteSession tracks the single in-flight elimination vote of a game.
// Ephemeral: held on the live Game only, never written to PostgreSQL.
type VoteSession struct {
	InitiatorID       string            `json:"initiatorId"`
	NominatedPlayerID string            `json:"nominatedPlayerId"`
	Ballots           map[string]string `json:"ballots"` // voter id -> drop|remain
}

// Game is the authoritative in-memory representation of one game room.
type Game struct {
	ID             string       `json:"id"`
	Status         string       `json:"status"`
	ImpostorCount  int          `json:"impostorCount"`
	PlayerSecret   string       `json:"playerSecret"`
	ImpostorSecret string       `json:"impostorSecret"`
	CreatedAt      time.Time    `json:"createdAt"`
	Players        []*Player    `json:"players"` // insertion order = join order
	ActiveVote     *VoteSession `json:"activeVote,omitempty"`
}

// Clone returns a deep copy safe to read outside the room lock. The vote
// session is transient and never persisted, so it is not carried over.
func (g *Game) Clone() *Game {
	clone := *g
	clone.ActiveVote = nil
	clone.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		cp := *p
		clone.Players[i] = &cp
	}
	return &clone
}

// FindPlayer returns the player with the given id, or nil.
func (g *Game) FindPlayer(playerID string) *Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// RemovePlayer drops a player from the collection. Only used for observers,
// which are ephemeral and leave no trace when they disconnect.
func (g *Game) RemovePlayer(playerID string) bool {
	for i, p := range g.Players {
		if p.ID == playerID {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			return true
		}
	}
	return false
}

// NonObservers returns every regular participant, dead or alive.
func (g *Game) NonObservers() []*Player {
	var out []*Player
	for _, p := range g.Players {
		if !p.IsObserver {
			out = append(out, p)
		}
	}
	return out
}

// ActiveNonObservers returns the participants that count towards vote
// turnout and the win-condition quorum.
func (g *Game) ActiveNonObservers() []*Player {
	var out []*Player
	for _, p := range g.Players {
		if !p.IsObserver && p.Status == game_constants.PlayerStatusActive {
			out = append(out, p)
		}
	}
	return out
}

// ActiveImpostors returns the impostors that have not been eliminated yet.
func (g *Game) ActiveImpostors() []*Player {
	var out []*Player
	for _, p := range g.Players {
		if p.Role == game_constants.RoleImpostor && p.Status != game_constants.PlayerStatusGhost {
			out = append(out, p)
		}
	}
	return out
}
