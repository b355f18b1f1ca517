package game_flow

import (
	game_constants "Molehunt/constants/game"
	game_state "Molehunt/services/game_state"
	"log"
	"math/rand"
	"time"
)

// ---------------------------------------------------------------
// TIMEOUTS
// ---------------------------------------------------------------
const (
	VOTE_TIMEOUT            = 2 * time.Minute
	DISCONNECT_GRACE_PERIOD = 30 * time.Second
)

// ---------------------------------------------------------------
// State transitions. All of these expect the caller to hold the
// game's room lock. Failed preconditions return false with no
// state change: invalid actions are silently ignored.
// ---------------------------------------------------------------

// StartGame assigns roles and moves the game to in-progress.
// Preconditions: still in lobby, at least MIN_PLAYERS_TO_START
// non-observers, and strictly fewer impostors than half the group.
func StartGame(game *game_state.Game) bool {
	if game.Status != game_constants.GameStatusLobby {
		return false
	}
	nonObservers := game.NonObservers()
	if len(nonObservers) < game_constants.MIN_PLAYERS_TO_START {
		return false
	}
	if 2*game.ImpostorCount >= len(nonObservers) {
		return false
	}

	// Uniform selection without replacement
	shuffled := make([]*game_state.Player, len(nonObservers))
	copy(shuffled, nonObservers)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for i, p := range shuffled {
		if i < game.ImpostorCount {
			p.Role = game_constants.RoleImpostor
		} else {
			p.Role = game_constants.RolePlayer
		}
	}

	game.Status = game_constants.GameStatusInProgress
	log.Printf("[START] Game %s started with %d players, %d impostors",
		game.ID, len(nonObservers), game.ImpostorCount)
	return true
}

// OpenVote opens the game's single vote session. The initiator must be an
// active non-observer that has never summoned a gathering in this game
// (one nomination attempt per player lifetime).
func OpenVote(game *game_state.Game, initiatorID, nominatedPlayerID string) bool {
	if game.Status != game_constants.GameStatusInProgress || game.ActiveVote != nil {
		return false
	}
	initiator := game.FindPlayer(initiatorID)
	if initiator == nil || initiator.IsObserver ||
		initiator.Status != game_constants.PlayerStatusActive ||
		initiator.IsGatheringSummoned {
		return false
	}
	nominated := game.FindPlayer(nominatedPlayerID)
	if nominated == nil || nominated.IsObserver {
		return false
	}

	initiator.IsGatheringSummoned = true
	game.ActiveVote = &game_state.VoteSession{
		InitiatorID:       initiatorID,
		NominatedPlayerID: nominatedPlayerID,
		Ballots:           make(map[string]string),
	}
	return true
}

// CastBallot records a voter's first ballot. Repeat ballots from the same
// voter are idempotent no-ops. Returns whether the ballot was recorded and
// whether every active non-observer has now voted.
func CastBallot(game *game_state.Game, voterID, choice string) (recorded bool, fullTurnout bool) {
	vote := game.ActiveVote
	if vote == nil {
		return false, false
	}
	if choice != game_constants.VoteChoiceDrop && choice != game_constants.VoteChoiceRemain {
		return false, false
	}
	voter := game.FindPlayer(voterID)
	if voter == nil || voter.IsObserver || voter.Status != game_constants.PlayerStatusActive {
		return false, false
	}
	if _, alreadyVoted := vote.Ballots[voterID]; alreadyVoted {
		return false, len(vote.Ballots) >= len(game.ActiveNonObservers())
	}

	vote.Ballots[voterID] = choice
	return true, len(vote.Ballots) >= len(game.ActiveNonObservers())
}

// ResolveVote tallies the session and clears it. Ties favor elimination:
// drop >= remain ghosts the nominated player. Returns the eliminated player
// (nil if the nominee remained) and the outcome string for the broadcast.
func ResolveVote(game *game_state.Game) (eliminated *game_state.Player, outcome string) {
	vote := game.ActiveVote
	if vote == nil {
		return nil, ""
	}
	game.ActiveVote = nil

	drop, remain := 0, 0
	for _, choice := range vote.Ballots {
		if choice == game_constants.VoteChoiceDrop {
			drop++
		} else {
			remain++
		}
	}

	nominated := game.FindPlayer(vote.NominatedPlayerID)
	if nominated != nil && drop >= remain {
		nominated.Status = game_constants.PlayerStatusGhost
		log.Printf("[VOTE] Game %s: %s eliminated (%d drop / %d remain)",
			game.ID, nominated.Name, drop, remain)
		return nominated, "eliminated"
	}
	log.Printf("[VOTE] Game %s: nominee remained (%d drop / %d remain)", game.ID, drop, remain)
	return nil, "remained"
}

// EvaluateWinCondition checks the quorum math and, on a winner, moves the
// game to finished. Returns the winner ("player" or "impostor") or "" while
// the game goes on. Only meaningful while in-progress.
//
// A finished game carries no vote session: an elimination outside the vote
// path (disconnect grace) can end the game while a vote is pending, and
// that vote must die with the game.
func EvaluateWinCondition(game *game_state.Game) string {
	if game.Status != game_constants.GameStatusInProgress {
		return ""
	}

	activeNonObservers := game.ActiveNonObservers()
	activeImpostors := game.ActiveImpostors()

	if len(activeImpostors) == 0 {
		game.Status = game_constants.GameStatusFinished
		game.ActiveVote = nil
		log.Printf("[WIN] Game %s: players win", game.ID)
		return game_constants.WinnerPlayers
	}
	if 2*len(activeImpostors) >= len(activeNonObservers) {
		game.Status = game_constants.GameStatusFinished
		game.ActiveVote = nil
		log.Printf("[WIN] Game %s: impostors win", game.ID)
		return game_constants.WinnerImpostors
	}
	return ""
}

// SecretForRole picks which of the two game prompts a participant is
// allowed to see.
func SecretForRole(game *game_state.Game, role string) string {
	if role == game_constants.RoleImpostor {
		return game.ImpostorSecret
	}
	return game.PlayerSecret
}
