package handlers

import (
	game_constants "Molehunt/constants/game"
	game_state "Molehunt/services/game_state"
	socketio_types "Molehunt/services/socket_io/types"
	game_flow "Molehunt/services/socket_io/utils/game_flow"
	game_sync "Molehunt/services/sync"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleSummonGathering opens an elimination vote against a nominated
// participant. Each participant gets a single nomination attempt for the
// whole game; a second summon from the same player is silently ignored.
func HandleSummonGathering(store *game_state.Store, syncManager *game_sync.SyncManager,
	director *game_flow.Director, client *socket.Socket,
	sio *socketio_types.SocketServer, playerID, gameID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := getPayload(args)
		if !ok {
			client.Emit("action_rejected", gin.H{"action": "summon_gathering", "reason": "missing payload"})
			return
		}
		nominatedPlayerID, ok := getString(payload, "nominatedPlayerId")
		if !ok {
			client.Emit("action_rejected", gin.H{"action": "summon_gathering", "reason": "missing nominatedPlayerId"})
			return
		}

		log.Printf("[GATHERING] Player %s nominates %s in game %s", playerID, nominatedPlayerID, gameID)

		room := store.Room(gameID)
		room.Lock()
		defer room.Unlock()

		game := store.Get(gameID)
		if game == nil {
			return
		}

		if !game_flow.OpenVote(game, playerID, nominatedPlayerID) {
			log.Printf("[GATHERING] Summon rejected for player %s in game %s", playerID, gameID)
			client.Emit("action_rejected", gin.H{"action": "summon_gathering", "reason": "preconditions not met"})
			return
		}

		store.Update(gameID, game)
		sio.Sio_server.To(socket.Room(gameID)).Emit("vote_started", gin.H{
			"initiator":         playerID,
			"nominatedPlayerId": nominatedPlayerID,
		})

		director.ArmVoteDeadline(gameID, game_flow.VOTE_TIMEOUT, func() {
			resolveGatheringOnDeadline(store, syncManager, director, sio, gameID)
		})
	}
}

// HandleSubmitVote records a participant's ballot. Only the first ballot
// per voter counts; once every active non-observer has voted the session
// resolves immediately and the deadline is cancelled.
func HandleSubmitVote(store *game_state.Store, syncManager *game_sync.SyncManager,
	director *game_flow.Director, client *socket.Socket,
	sio *socketio_types.SocketServer, playerID, gameID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := getPayload(args)
		if !ok {
			client.Emit("action_rejected", gin.H{"action": "submit_vote", "reason": "missing payload"})
			return
		}
		choice, ok := getString(payload, "choice")
		if !ok {
			client.Emit("action_rejected", gin.H{"action": "submit_vote", "reason": "missing choice"})
			return
		}

		room := store.Room(gameID)
		room.Lock()
		defer room.Unlock()

		game := store.Get(gameID)
		if game == nil {
			return
		}

		recorded, fullTurnout := game_flow.CastBallot(game, playerID, choice)
		if recorded {
			log.Printf("[VOTE] Ballot %q from player %s in game %s", choice, playerID, gameID)
			store.Update(gameID, game)
		}

		if fullTurnout && game.ActiveVote != nil {
			log.Printf("[VOTE] Full turnout in game %s, resolving early", gameID)
			director.CancelVoteDeadline(gameID)
			resolveGathering(store, syncManager, director, sio, game)
		}
	}
}

// resolveGatheringOnDeadline is the 120s fallback: the deadline fired, so
// whatever ballots exist get tallied. Re-enters the room lock first. A game
// that already finished (grace elimination) has nothing left to resolve.
func resolveGatheringOnDeadline(store *game_state.Store, syncManager *game_sync.SyncManager,
	director *game_flow.Director, sio *socketio_types.SocketServer, gameID string) {

	room := store.Room(gameID)
	room.Lock()
	defer room.Unlock()

	game := store.Get(gameID)
	if game == nil || game.ActiveVote == nil ||
		game.Status != game_constants.GameStatusInProgress {
		return
	}
	log.Printf("[VOTE] Deadline reached in game %s, resolving", gameID)
	resolveGathering(store, syncManager, director, sio, game)
}

// resolveGathering tallies the session, announces the outcome, persists and
// re-evaluates the win condition. Caller must hold the room lock.
func resolveGathering(store *game_state.Store, syncManager *game_sync.SyncManager,
	director *game_flow.Director, sio *socketio_types.SocketServer, game *game_state.Game) {

	eliminated, outcome := game_flow.ResolveVote(game)
	if outcome == "" {
		return
	}

	var eliminatedPayload interface{}
	if eliminated != nil {
		eliminatedPayload = eliminated
	}
	sio.Sio_server.To(socket.Room(game.ID)).Emit("vote_ended", gin.H{
		"eliminatedPlayer": eliminatedPayload,
		"outcome":          outcome,
	})

	store.Update(game.ID, game)
	sio.Sio_server.To(socket.Room(game.ID)).Emit("game_update", game)
	syncManager.EnqueueGameSync(game.ID)

	if eliminated != nil {
		finishGameIfWon(store, syncManager, director, sio, game)
	}
}
