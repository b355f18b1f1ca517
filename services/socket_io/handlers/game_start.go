package handlers

import (
	game_state "Molehunt/services/game_state"
	socketio_types "Molehunt/services/socket_io/types"
	game_flow "Molehunt/services/socket_io/utils/game_flow"
	game_sync "Molehunt/services/sync"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleStartGame moves a lobby into play. Any connected participant may
// trigger it, there is no privileged host. Preconditions (still in lobby,
// enough players, sane impostor count) failing is a silent no-op towards
// the room; the sender gets a diagnostic-only rejection.
func HandleStartGame(store *game_state.Store, syncManager *game_sync.SyncManager,
	client *socket.Socket, sio *socketio_types.SocketServer,
	playerID, gameID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[START] start_game from player %s for game %s", playerID, gameID)

		room := store.Room(gameID)
		room.Lock()
		defer room.Unlock()

		game := store.Get(gameID)
		if game == nil {
			client.Emit("action_rejected", gin.H{"action": "start_game", "reason": "game not loaded"})
			return
		}

		if !game_flow.StartGame(game) {
			log.Printf("[START] Preconditions not met for game %s, ignoring", gameID)
			client.Emit("action_rejected", gin.H{"action": "start_game", "reason": "preconditions not met"})
			return
		}

		store.Update(gameID, game)
		syncManager.EnqueueGameSync(gameID)

		sio.Sio_server.To(socket.Room(gameID)).Emit("game_started", game)

		// Role-based secret delivery: each participant only ever receives
		// the prompt matching their own role, over their own socket.
		for _, p := range game.Players {
			if p.IsObserver {
				continue
			}
			conn, exists := sio.GetConnection(p.ID)
			if !exists {
				continue
			}
			conn.Emit("role_assigned", gin.H{
				"role":   p.Role,
				"secret": game_flow.SecretForRole(game, p.Role),
			})
		}
	}
}
