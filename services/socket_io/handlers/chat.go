package handlers

import (
	game_constants "Molehunt/constants/game"
	redis_models "Molehunt/models/redis"
	game_state "Molehunt/services/game_state"
	"Molehunt/services/redis"
	socketio_types "Molehunt/services/socket_io/types"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleGameMessage broadcasts a chat message to the game room and appends
// it to the capped Redis history. Chat never touches the game state machine.
func HandleGameMessage(store *game_state.Store, redisClient *redis.RedisClient,
	client *socket.Socket, sio *socketio_types.SocketServer,
	playerID, gameID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := getPayload(args)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing message payload"})
			return
		}
		message, ok := getString(payload, "message")
		if !ok {
			client.Emit("error", gin.H{"error": "Missing message"})
			return
		}

		room := store.Room(gameID)
		room.Lock()
		defer room.Unlock()

		game := store.Get(gameID)
		if game == nil {
			client.Emit("error", gin.H{"error": "Game not loaded"})
			return
		}
		player := game.FindPlayer(playerID)
		if player == nil || player.Status == game_constants.PlayerStatusGhost {
			// Ghosts watch in silence
			return
		}

		chatMessage := &redis_models.ChatMessage{
			GameID:    gameID,
			PlayerID:  playerID,
			Name:      player.Name,
			Message:   message,
			Timestamp: time.Now(),
		}
		if redisClient != nil {
			if err := redisClient.SaveChatMessage(chatMessage); err != nil {
				log.Printf("[CHAT-WARN] Could not save message for game %s: %v", gameID, err)
			}
		}

		sio.Sio_server.To(socket.Room(gameID)).Emit("new_game_message", chatMessage)
	}
}

// HandleGetChatHistory replays the retained messages to the requesting
// socket only.
func HandleGetChatHistory(redisClient *redis.RedisClient, client *socket.Socket,
	playerID, gameID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		if redisClient == nil {
			client.Emit("chat_history", []interface{}{})
			return
		}
		history, err := redisClient.GetChatHistory(gameID)
		if err != nil {
			log.Printf("[CHAT-ERROR] Could not read history for game %s: %v", gameID, err)
			client.Emit("error", gin.H{"error": "Error retrieving chat history"})
			return
		}
		client.Emit("chat_history", history)
	}
}
