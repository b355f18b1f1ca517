package main

import (
	"Molehunt/config"
	pgconfig "Molehunt/config/postgres"
	_ "Molehunt/config/swagger"
	"Molehunt/middleware"
	"Molehunt/routes"
	game_state "Molehunt/services/game_state"
	"Molehunt/services/redis"
	"Molehunt/services/socket_io"
	game_sync "Molehunt/services/sync"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// @title Molehunt API
// @version 1.0
// @description Gin-Gonic server for the Molehunt social-deduction game
// @BasePath /
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := pgconfig.ConnectGORM()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	log.Println("GORM Connected")

	// Only migrate in development or during deployment
	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		log.Println("Migrating PostgreSQL database...")
		if err := pgconfig.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
			// Continue execution even if migration fails
		} else {
			log.Println("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis()
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	log.Println("Connection to Redis successful")
	defer redis.CloseRedis(redisClient)

	r := gin.Default()

	middleware.SetUpMiddleware(r)

	// Authoritative in-memory game state and its write-back queue
	store := game_state.NewStore(gormDB)
	syncManager := game_sync.NewSyncManager(gormDB, store)

	// Realtime gateway
	sio := &socket_io.GameSocketServer{}
	sio.Start(r, redisClient, store, syncManager)

	routes.SetupRoutes(r, gormDB)

	// Configure port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
