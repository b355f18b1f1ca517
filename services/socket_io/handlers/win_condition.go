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

// finishGameIfWon runs the win-condition math after an elimination. On a
// winner it persists the finished state and announces it to the room. Any
// pending vote dies with the game, including its armed deadline.
// Caller must hold the game's room lock.
func finishGameIfWon(store *game_state.Store, syncManager *game_sync.SyncManager,
	director *game_flow.Director, sio *socketio_types.SocketServer,
	game *game_state.Game) bool {

	winner := game_flow.EvaluateWinCondition(game)
	if winner == "" {
		return false
	}

	director.CancelVoteDeadline(game.ID)
	store.Update(game.ID, game)
	syncManager.EnqueueGameSync(game.ID)
	sio.Sio_server.To(socket.Room(game.ID)).Emit("game_over", gin.H{
		"winner":  winner,
		"players": game.Players,
	})
	log.Printf("[GAME-OVER] Game %s finished, winner: %s", game.ID, winner)
	return true
}
