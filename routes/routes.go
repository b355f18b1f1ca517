package routes

import (
	"Molehunt/controllers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB) {
	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	// Static record creation: games and participants. Everything that
	// happens after the join (role delivery, voting, eliminations) goes
	// through the socket.io gateway instead.
	api.POST("/game", controllers.CreateGame(db))

	api.GET("/game/:game_id", controllers.GetGameInfo(db))

	api.POST("/game/:game_id/join", controllers.JoinGame(db))
}
