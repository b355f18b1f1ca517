package socket_io

import (
	game_state "Molehunt/services/game_state"
	"Molehunt/services/redis"
	"Molehunt/services/socket_io/handlers"
	socketio_types "Molehunt/services/socket_io/types"
	socketio_utils "Molehunt/services/socket_io/utils"
	game_flow "Molehunt/services/socket_io/utils/game_flow"
	game_sync "Molehunt/services/sync"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type GameSocketServer socketio_types.SocketServer

// Start mounts the socket.io gateway on the gin router and wires every
// realtime event of the protocol. Each accepted connection is bound to the
// (playerID, gameID) pair carried by its identity claim and joined to the
// game's broadcast room before any event handler runs.
func (sio *GameSocketServer) Start(router *gin.Engine, redisClient *redis.RedisClient,
	store *game_state.Store, syncManager *game_sync.SyncManager) {

	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and
	// 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.PlayerConnections = make(map[string]*socket.Socket)

	// Scheduled-delay owner shared by every room: vote deadlines and
	// disconnect grace timers
	director := game_flow.NewDirector()

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		// Refuse the connection before any game state is touched
		success, playerID, gameID := socketio_utils.VerifyPlayerConnection(client)
		if !success {
			return
		}

		(*socketio_types.SocketServer)(sio).AddConnection(playerID, client)
		client.Join(socket.Room(gameID))

		fmt.Println("Player connected:", playerID, "game:", gameID)

		typedSio := (*socketio_types.SocketServer)(sio)

		// Announce presence, hydrate the game, flip online
		client.On("join-event", handlers.HandleJoinEvent(store, director, redisClient,
			client, typedSio, playerID, gameID))

		// Leave the broadcast group voluntarily
		client.On("leave-event", handlers.HandleLeaveEvent(client, gameID))

		// Move the lobby into play and deal out roles
		client.On("start_game", handlers.HandleStartGame(store, syncManager,
			client, typedSio, playerID, gameID))

		// Nominate a participant for elimination
		client.On("summon_gathering", handlers.HandleSummonGathering(store, syncManager,
			director, client, typedSio, playerID, gameID))

		// Cast a ballot in the active vote session
		client.On("submit_vote", handlers.HandleSubmitVote(store, syncManager,
			director, client, typedSio, playerID, gameID))

		// Game chat, backed by a capped Redis history
		client.On("game_message", handlers.HandleGameMessage(store, redisClient,
			client, typedSio, playerID, gameID))
		client.On("get_chat_history", handlers.HandleGetChatHistory(redisClient,
			client, playerID, gameID))

		// NOTE: will remove sio connection from map and maybe arm the grace timer
		client.On("disconnecting", handlers.HandleDisconnecting(store, syncManager,
			director, redisClient, typedSio, playerID, gameID))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	fmt.Println("Socket server started")
}
