package handlers

import (
	game_constants "Molehunt/constants/game"
	redis_models "Molehunt/models/redis"
	game_state "Molehunt/services/game_state"
	"Molehunt/services/redis"
	socketio_types "Molehunt/services/socket_io/types"
	game_flow "Molehunt/services/socket_io/utils/game_flow"
	game_sync "Molehunt/services/sync"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleJoinEvent is the explicit "I am here" message a client sends after
// connecting. It hydrates the game into the store if needed, flips the
// bound participant online, cancels any pending disconnect grace timer and
// broadcasts the refreshed state to the room.
func HandleJoinEvent(store *game_state.Store, director *game_flow.Director,
	redisClient *redis.RedisClient, client *socket.Socket,
	sio *socketio_types.SocketServer, playerID, gameID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[JOIN] join-event from player %s for game %s, socket %s",
			playerID, gameID, client.Id())

		room := store.Room(gameID)
		room.Lock()
		defer room.Unlock()

		game, err := store.Load(gameID)
		if err != nil {
			log.Printf("[JOIN-ERROR] Game %s not found: %v", gameID, err)
			client.Emit("error", gin.H{"error": "Game not found"})
			client.Disconnect(true)
			return
		}

		player := game.FindPlayer(playerID)
		if player == nil {
			log.Printf("[JOIN-ERROR] Player %s not part of game %s", playerID, gameID)
			client.Emit("error", gin.H{"error": "You are not part of this game"})
			return
		}

		player.Online = true
		director.CancelGraceTimer(gameID, playerID)
		store.Update(gameID, game)

		if redisClient != nil {
			if err := redisClient.SetPlayerPresence(&redis_models.PlayerPresence{
				PlayerID: playerID,
				GameID:   gameID,
				Status:   redis_models.StatusOnline,
				LastPing: time.Now().Unix(),
				SocketID: string(client.Id()),
			}); err != nil {
				log.Printf("[JOIN-WARN] Could not mirror presence for %s: %v", playerID, err)
			}
		}

		sio.Sio_server.To(socket.Room(gameID)).Emit("game_update", game)
	}
}

// HandleLeaveEvent removes the socket from the game's broadcast group.
// Game-level timers are owned by the game, not the connection, so nothing
// else happens here.
func HandleLeaveEvent(client *socket.Socket, gameID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[LEAVE] Socket %s leaving room %s", client.Id(), gameID)
		client.Leave(socket.Room(gameID))
	}
}

// HandleDisconnecting runs when a socket drops. Observers are ephemeral and
// are removed outright. Regular participants go offline and, mid-game, get
// a grace window to reconnect before being treated as eliminated.
func HandleDisconnecting(store *game_state.Store, syncManager *game_sync.SyncManager,
	director *game_flow.Director, redisClient *redis.RedisClient,
	sio *socketio_types.SocketServer, playerID, gameID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] Player %s disconnecting from game %s", playerID, gameID)

		sio.RemoveConnection(playerID)
		if redisClient != nil {
			if err := redisClient.DeletePlayerPresence(playerID); err != nil {
				log.Printf("[DISCONNECT-WARN] Could not clear presence for %s: %v", playerID, err)
			}
		}

		room := store.Room(gameID)
		room.Lock()
		defer room.Unlock()

		game := store.Get(gameID)
		if game == nil {
			return
		}
		player := game.FindPlayer(playerID)
		if player == nil {
			return
		}

		if player.IsObserver {
			// Observers leave no trace
			game.RemovePlayer(playerID)
			store.Update(gameID, game)
			sio.Sio_server.To(socket.Room(gameID)).Emit("game_update", game)
			log.Printf("[DISCONNECT] Observer %s removed from game %s", playerID, gameID)
			return
		}

		player.Online = false
		store.Update(gameID, game)

		if game.Status == game_constants.GameStatusInProgress {
			log.Printf("[DISCONNECT] Arming %s grace timer for player %s",
				game_flow.DISCONNECT_GRACE_PERIOD, playerID)
			director.ArmGraceTimer(gameID, playerID, game_flow.DISCONNECT_GRACE_PERIOD, func() {
				eliminateIfStillOffline(store, syncManager, director, sio, gameID, playerID)
			})
		}
	}
}

// eliminateIfStillOffline is the grace timer callback. It re-enters the
// room's serialization point and ghosts the participant only if they never
// came back within the window.
func eliminateIfStillOffline(store *game_state.Store, syncManager *game_sync.SyncManager,
	director *game_flow.Director, sio *socketio_types.SocketServer, gameID, playerID string) {

	room := store.Room(gameID)
	room.Lock()
	defer room.Unlock()

	game := store.Get(gameID)
	if game == nil || game.Status != game_constants.GameStatusInProgress {
		return
	}
	player := game.FindPlayer(playerID)
	if player == nil || player.Online || player.Status != game_constants.PlayerStatusActive {
		return
	}

	player.Status = game_constants.PlayerStatusGhost
	store.Update(gameID, game)
	syncManager.EnqueueGameSync(gameID)
	sio.Sio_server.To(socket.Room(gameID)).Emit("game_update", game)
	log.Printf("[DISCONNECT] Player %s eliminated after grace period in game %s", playerID, gameID)

	finishGameIfWon(store, syncManager, director, sio, game)
}
