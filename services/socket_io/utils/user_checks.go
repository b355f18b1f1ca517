package socketio_utils

import (
	"Molehunt/middleware"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// VerifyPlayerConnection authenticates a socket.io client connection against
// its identity claim. The claim binds the connection to a specific
// (playerID, gameID) pair; connections without a valid claim are refused
// before any game state is touched.
func VerifyPlayerConnection(client *socket.Socket) (success bool, playerID, gameID string) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		fmt.Println("No auth data provided in handshake!")
		client.Emit("error", gin.H{"error": "Authentication failed: missing auth data"})
		client.Disconnect(true)
		return false, "", ""
	}

	playerID, gameID, err := middleware.Socketio_JWT_decoder(authData)
	if err != nil {
		fmt.Println("Error decoding session claim:", err)
		client.Emit("error", gin.H{
			"error": "Authentication failed: invalid session claim. Provide it under 'session' or as a Bearer token under 'authorization'.",
		})
		client.Disconnect(true)
		return false, "", ""
	}

	return true, playerID, gameID
}
