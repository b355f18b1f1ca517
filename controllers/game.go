package controllers

import (
	game_constants "Molehunt/constants/game"
	"Molehunt/middleware"
	models "Molehunt/models/postgres"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// @Summary Health check
// @Description Returns pong
// @Tags health
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

type createGameRequest struct {
	ImpostorCount  int    `json:"impostor_count" binding:"required,min=1"`
	PlayerSecret   string `json:"player_secret" binding:"required"`
	ImpostorSecret string `json:"impostor_secret" binding:"required"`
}

// @Summary Create a new game
// @Description Creates a game with two secret prompts and an impostor count, returns its id
// @Tags game
// @Accept json
// @Produce json
// @Success 201 {object} object{game_id=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /game [post]
func CreateGame(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createGameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fields"})
			return
		}

		game := models.Game{
			Status:         game_constants.GameStatusLobby,
			ImpostorCount:  req.ImpostorCount,
			PlayerSecret:   req.PlayerSecret,
			ImpostorSecret: req.ImpostorSecret,
		}
		if err := db.Create(&game).Error; err != nil {
			log.Printf("[GAME-CREATE-ERROR] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating game"})
			return
		}

		log.Printf("[GAME-CREATE] Created game %s (impostors: %d)", game.ID, game.ImpostorCount)
		c.JSON(http.StatusCreated, gin.H{"game_id": game.ID})
	}
}

type joinGameRequest struct {
	Name       string `json:"name" binding:"required"`
	IsObserver bool   `json:"is_observer"`
}

// @Summary Join a game
// @Description Registers a participant, mints their identity claim and sets the session cookie
// @Tags game
// @Accept json
// @Produce json
// @Param game_id path string true "Game id"
// @Success 201 {object} object{player_id=string,game_id=string,token=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /game/{game_id}/join [post]
func JoinGame(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameID := c.Param("game_id")

		var req joinGameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid name"})
			return
		}

		var game models.Game
		if err := db.Where("id = ?", gameID).First(&game).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying game"})
			}
			return
		}

		// Names are unique within a game
		var existing models.Player
		err := db.Where("game_id = ? AND name = ?", gameID, req.Name).First(&existing).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying players"})
			return
		}
		nameTaken := err == nil

		if game.Status != game_constants.GameStatusLobby {
			// A started game admits no new participants. A known name gets
			// its claim re-minted so a returning participant can reconnect
			// from a fresh device.
			if !nameTaken {
				c.JSON(http.StatusForbidden, gin.H{"error": "Game already started"})
				return
			}
			token, err := middleware.MintSessionClaim(existing.ID, gameID)
			if err != nil {
				log.Printf("[GAME-JOIN-ERROR] Could not mint session claim: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating session"})
				return
			}
			c.SetCookie(middleware.SessionCookieName, token,
				int(middleware.ClaimTTL.Seconds()), "/", "", false, true)
			log.Printf("[GAME-JOIN] Player %s (%s) rejoined started game %s",
				existing.ID, existing.Name, gameID)
			c.JSON(http.StatusOK, gin.H{
				"player_id": existing.ID,
				"game_id":   gameID,
				"token":     token,
			})
			return
		}

		if nameTaken {
			c.JSON(http.StatusConflict, gin.H{"error": "Name is already taken"})
			return
		}

		player := models.Player{
			ID:         uuid.NewString(),
			GameID:     gameID,
			Name:       req.Name,
			Status:     game_constants.PlayerStatusActive,
			IsObserver: req.IsObserver,
		}
		if err := db.Create(&player).Error; err != nil {
			log.Printf("[GAME-JOIN-ERROR] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error joining game"})
			return
		}

		token, err := middleware.MintSessionClaim(player.ID, gameID)
		if err != nil {
			log.Printf("[GAME-JOIN-ERROR] Could not mint session claim: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating session"})
			return
		}
		c.SetCookie(middleware.SessionCookieName, token,
			int(middleware.ClaimTTL.Seconds()), "/", "", false, true)

		log.Printf("[GAME-JOIN] Player %s (%s) joined game %s (observer: %v)",
			player.ID, player.Name, gameID, player.IsObserver)
		c.JSON(http.StatusCreated, gin.H{
			"player_id": player.ID,
			"game_id":   gameID,
			"token":     token,
		})
	}
}

// @Summary Public lobby info for a game
// @Description Returns id, status and player count. Secrets are never exposed here.
// @Tags game
// @Produce json
// @Param game_id path string true "Game id"
// @Success 200 {object} object{id=string,status=string,impostor_count=integer,player_count=integer}
// @Failure 404 {object} object{error=string}
// @Router /game/{game_id} [get]
func GetGameInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameID := c.Param("game_id")

		var game models.Game
		if err := db.Where("id = ?", gameID).First(&game).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying game"})
			}
			return
		}

		var playerCount int64
		if err := db.Model(&models.Player{}).Where("game_id = ?", gameID).Count(&playerCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting players"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":             game.ID,
			"status":         game.Status,
			"impostor_count": game.ImpostorCount,
			"player_count":   playerCount,
		})
	}
}
