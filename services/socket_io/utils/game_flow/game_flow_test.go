package game_flow

import (
	game_constants "Molehunt/constants/game"
	game_state "Molehunt/services/game_state"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLobby builds an in-progress-ready game with n regular participants
// (ids p1..pn) plus optional observers.
func newLobby(impostorCount, players, observers int) *game_state.Game {
	game := &game_state.Game{
		ID:             "aB3dE9",
		Status:         game_constants.GameStatusLobby,
		ImpostorCount:  impostorCount,
		PlayerSecret:   "the beach",
		ImpostorSecret: "the desert",
	}
	for i := 1; i <= players; i++ {
		game.Players = append(game.Players, &game_state.Player{
			ID:     fmt.Sprintf("p%d", i),
			GameID: game.ID,
			Name:   fmt.Sprintf("Player %d", i),
			Status: game_constants.PlayerStatusActive,
			Online: true,
		})
	}
	for i := 1; i <= observers; i++ {
		game.Players = append(game.Players, &game_state.Player{
			ID:         fmt.Sprintf("o%d", i),
			GameID:     game.ID,
			Name:       fmt.Sprintf("Observer %d", i),
			Status:     game_constants.PlayerStatusActive,
			IsObserver: true,
			Online:     true,
		})
	}
	return game
}

func startedGame(impostorCount, players, observers int) *game_state.Game {
	game := newLobby(impostorCount, players, observers)
	if !StartGame(game) {
		panic("test setup: StartGame preconditions not met")
	}
	return game
}

func TestStartGameAssignsExactImpostorCount(t *testing.T) {
	game := newLobby(1, 3, 1)

	require.True(t, StartGame(game))
	assert.Equal(t, game_constants.GameStatusInProgress, game.Status)

	impostors := 0
	for _, p := range game.NonObservers() {
		assert.NotEqual(t, game_constants.RoleUnassigned, p.Role)
		if p.Role == game_constants.RoleImpostor {
			impostors++
		}
	}
	assert.Equal(t, 1, impostors)

	// Observers never receive a role
	assert.Equal(t, game_constants.RoleUnassigned, game.FindPlayer("o1").Role)
}

func TestStartGameRejectsTooFewPlayers(t *testing.T) {
	game := newLobby(1, 2, 3) // observers don't count towards the minimum

	assert.False(t, StartGame(game))
	assert.Equal(t, game_constants.GameStatusLobby, game.Status)
}

func TestStartGameRejectsTooManyImpostors(t *testing.T) {
	// 2 impostors among 4 players: 2 >= 4/2
	game := newLobby(2, 4, 0)

	assert.False(t, StartGame(game))
	assert.Equal(t, game_constants.GameStatusLobby, game.Status)
}

func TestStartGameIsIdempotent(t *testing.T) {
	game := startedGame(1, 3, 0)
	rolesBefore := map[string]string{}
	for _, p := range game.Players {
		rolesBefore[p.ID] = p.Role
	}

	assert.False(t, StartGame(game))

	assert.Equal(t, game_constants.GameStatusInProgress, game.Status)
	for _, p := range game.Players {
		assert.Equal(t, rolesBefore[p.ID], p.Role, "roles are never reassigned")
	}
}

func TestOpenVoteSingleSessionPerGame(t *testing.T) {
	game := startedGame(1, 4, 0)

	require.True(t, OpenVote(game, "p1", "p2"))
	require.NotNil(t, game.ActiveVote)

	// A second session can't open while one is in flight
	assert.False(t, OpenVote(game, "p3", "p4"))
	assert.Equal(t, "p2", game.ActiveVote.NominatedPlayerID)
}

func TestOpenVoteOneSummonPerPlayerLifetime(t *testing.T) {
	game := startedGame(1, 4, 0)

	require.True(t, OpenVote(game, "p1", "p2"))
	ResolveVote(game)
	require.Nil(t, game.ActiveVote)

	// p1 already summoned once, forever
	assert.False(t, OpenVote(game, "p1", "p3"))
	// others still can
	assert.True(t, OpenVote(game, "p2", "p3"))
}

func TestOpenVoteRejectsIneligibleInitiators(t *testing.T) {
	game := startedGame(1, 4, 1)

	game.FindPlayer("p2").Status = game_constants.PlayerStatusGhost

	assert.False(t, OpenVote(game, "o1", "p1"), "observer can't summon")
	assert.False(t, OpenVote(game, "p2", "p1"), "ghost can't summon")
	assert.False(t, OpenVote(game, "nobody", "p1"))
	assert.False(t, OpenVote(game, "p1", "o1"), "observer can't be nominated")
}

func TestCastBallotFirstOnly(t *testing.T) {
	game := startedGame(1, 4, 0)
	require.True(t, OpenVote(game, "p1", "p2"))

	recorded, full := CastBallot(game, "p1", game_constants.VoteChoiceDrop)
	assert.True(t, recorded)
	assert.False(t, full)

	// Flip-flopping is ignored: the first ballot stands
	recorded, _ = CastBallot(game, "p1", game_constants.VoteChoiceRemain)
	assert.False(t, recorded)
	assert.Equal(t, game_constants.VoteChoiceDrop, game.ActiveVote.Ballots["p1"])
	assert.Len(t, game.ActiveVote.Ballots, 1)
}

func TestCastBallotExcludesObserversAndGhosts(t *testing.T) {
	game := startedGame(1, 4, 1)
	game.FindPlayer("p4").Status = game_constants.PlayerStatusGhost
	require.True(t, OpenVote(game, "p1", "p2"))

	recorded, _ := CastBallot(game, "o1", game_constants.VoteChoiceDrop)
	assert.False(t, recorded)
	recorded, _ = CastBallot(game, "p4", game_constants.VoteChoiceDrop)
	assert.False(t, recorded)
	recorded, _ = CastBallot(game, "p1", "maybe")
	assert.False(t, recorded, "unknown choice is ignored")

	assert.Empty(t, game.ActiveVote.Ballots)
}

func TestCastBallotFullTurnout(t *testing.T) {
	game := startedGame(1, 3, 0)
	require.True(t, OpenVote(game, "p1", "p2"))

	_, full := CastBallot(game, "p1", game_constants.VoteChoiceDrop)
	assert.False(t, full)
	_, full = CastBallot(game, "p2", game_constants.VoteChoiceRemain)
	assert.False(t, full)
	_, full = CastBallot(game, "p3", game_constants.VoteChoiceDrop)
	assert.True(t, full, "every active non-observer has voted")
}

func TestResolveVoteTieFavorsElimination(t *testing.T) {
	game := startedGame(1, 4, 0)
	require.True(t, OpenVote(game, "p1", "p2"))
	CastBallot(game, "p1", game_constants.VoteChoiceDrop)
	CastBallot(game, "p3", game_constants.VoteChoiceRemain)

	eliminated, outcome := ResolveVote(game)

	require.NotNil(t, eliminated)
	assert.Equal(t, "p2", eliminated.ID)
	assert.Equal(t, "eliminated", outcome)
	assert.Equal(t, game_constants.PlayerStatusGhost, eliminated.Status)
	assert.Nil(t, game.ActiveVote)
}

func TestResolveVoteMajorityRemain(t *testing.T) {
	game := startedGame(1, 4, 0)
	require.True(t, OpenVote(game, "p1", "p2"))
	CastBallot(game, "p1", game_constants.VoteChoiceDrop)
	CastBallot(game, "p3", game_constants.VoteChoiceRemain)
	CastBallot(game, "p4", game_constants.VoteChoiceRemain)

	eliminated, outcome := ResolveVote(game)

	assert.Nil(t, eliminated)
	assert.Equal(t, "remained", outcome)
	assert.Equal(t, game_constants.PlayerStatusActive, game.FindPlayer("p2").Status)
	assert.Nil(t, game.ActiveVote)
}

func TestWinConditionPlayersWinWhenLastImpostorFalls(t *testing.T) {
	game := startedGame(1, 6, 0)

	impostor := game.ActiveImpostors()[0]
	impostor.Status = game_constants.PlayerStatusGhost

	assert.Equal(t, game_constants.WinnerPlayers, EvaluateWinCondition(game))
	assert.Equal(t, game_constants.GameStatusFinished, game.Status)
}

func TestWinConditionImpostorsReachQuorum(t *testing.T) {
	// 6 players, 2 impostors; ghost two regulars: 4 actives left, 2 of
	// them impostors => 2 >= 4/2
	game := startedGame(2, 6, 0)

	ghosted := 0
	for _, p := range game.NonObservers() {
		if p.Role == game_constants.RolePlayer && ghosted < 2 {
			p.Status = game_constants.PlayerStatusGhost
			ghosted++
		}
	}
	require.Equal(t, 2, ghosted)

	assert.Equal(t, game_constants.WinnerImpostors, EvaluateWinCondition(game))
	assert.Equal(t, game_constants.GameStatusFinished, game.Status)
}

func TestWinConditionNoWinnerYet(t *testing.T) {
	game := startedGame(1, 5, 0)

	assert.Equal(t, "", EvaluateWinCondition(game))
	assert.Equal(t, game_constants.GameStatusInProgress, game.Status)
}

func TestWinConditionOnlyWhileInProgress(t *testing.T) {
	game := newLobby(1, 3, 0)

	assert.Equal(t, "", EvaluateWinCondition(game))
	assert.Equal(t, game_constants.GameStatusLobby, game.Status)
}

func TestFinishedGameDropsPendingVote(t *testing.T) {
	// An elimination outside the vote path (disconnect grace) can finish the
	// game while a vote session is open. The session must die with the game:
	// a late deadline can no longer ghost the nominee.
	game := startedGame(2, 6, 0)
	require.True(t, OpenVote(game, "p1", "p2"))
	CastBallot(game, "p1", game_constants.VoteChoiceDrop)

	nominee := game.ActiveVote.NominatedPlayerID
	nomineeStatus := game.FindPlayer(nominee).Status

	ghosted := 0
	for _, p := range game.NonObservers() {
		if p.Role == game_constants.RolePlayer && p.ID != nominee && ghosted < 2 {
			p.Status = game_constants.PlayerStatusGhost
			ghosted++
		}
	}
	require.Equal(t, 2, ghosted)

	require.Equal(t, game_constants.WinnerImpostors, EvaluateWinCondition(game))
	assert.Nil(t, game.ActiveVote)

	// The deadline callback tallying after the fact finds nothing to resolve
	eliminated, outcome := ResolveVote(game)
	assert.Nil(t, eliminated)
	assert.Equal(t, "", outcome)
	assert.Equal(t, nomineeStatus, game.FindPlayer(nominee).Status)
}

func TestObserversNeverCountTowardsQuorum(t *testing.T) {
	// 5 active players with 1 impostor plus 3 observers: still no winner
	game := startedGame(1, 5, 3)

	assert.Equal(t, "", EvaluateWinCondition(game))
}

func TestFullVoteLifecycle(t *testing.T) {
	// Three participants, one impostor. A nominates B, everyone votes.
	game := newLobby(1, 3, 0)
	require.True(t, StartGame(game))

	require.True(t, OpenVote(game, "p1", "p2"))
	assert.True(t, game.FindPlayer("p1").IsGatheringSummoned)

	CastBallot(game, "p1", game_constants.VoteChoiceDrop)
	CastBallot(game, "p2", game_constants.VoteChoiceRemain)
	_, full := CastBallot(game, "p3", game_constants.VoteChoiceDrop)
	require.True(t, full)

	eliminated, outcome := ResolveVote(game)
	require.NotNil(t, eliminated)
	assert.Equal(t, "eliminated", outcome)
	assert.Equal(t, game_constants.PlayerStatusGhost, game.FindPlayer("p2").Status)

	winner := EvaluateWinCondition(game)
	if eliminated.Role == game_constants.RoleImpostor {
		assert.Equal(t, game_constants.WinnerPlayers, winner)
		assert.Equal(t, game_constants.GameStatusFinished, game.Status)
	} else {
		// 2 actives left, one of them the impostor: impostors reach quorum
		assert.Equal(t, game_constants.WinnerImpostors, winner)
	}
}

func TestSecretForRole(t *testing.T) {
	game := newLobby(1, 3, 0)

	assert.Equal(t, "the desert", SecretForRole(game, game_constants.RoleImpostor))
	assert.Equal(t, "the beach", SecretForRole(game, game_constants.RolePlayer))
}
