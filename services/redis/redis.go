package redis

import (
	game_constants "Molehunt/constants/game"
	redis_models "Molehunt/models/redis"
	redis_utils "Molehunt/services/redis/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// SaveChatMessage appends a message to the game's capped chat history
func (rc *RedisClient) SaveChatMessage(msg *redis_models.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %v", err)
	}

	key := redis_utils.FormatChatHistoryKey(msg.GameID)
	pipe := rc.client.TxPipeline()
	pipe.RPush(rc.ctx, key, data)
	pipe.LTrim(rc.ctx, key, -game_constants.CHAT_HISTORY_LENGTH, -1)
	if _, err := pipe.Exec(rc.ctx); err != nil {
		return fmt.Errorf("failed to save chat message: %v", err)
	}
	return nil
}

// GetChatHistory returns the retained messages for a game, oldest first
func (rc *RedisClient) GetChatHistory(gameID string) ([]redis_models.ChatMessage, error) {
	key := redis_utils.FormatChatHistoryKey(gameID)
	raw, err := rc.client.LRange(rc.ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get chat history: %v", err)
	}

	messages := make([]redis_models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg redis_models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			log.Printf("[REDIS-WARN] Skipping malformed chat message in %s: %v", key, err)
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// SetPlayerPresence mirrors a participant's connection state. Best-effort
// only: the in-memory game state stays authoritative.
func (rc *RedisClient) SetPlayerPresence(presence *redis_models.PlayerPresence) error {
	data, err := json.Marshal(presence)
	if err != nil {
		return fmt.Errorf("failed to marshal presence: %v", err)
	}
	key := redis_utils.FormatPlayerPresenceKey(presence.PlayerID)
	if err := rc.client.Set(rc.ctx, key, data, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to set presence: %v", err)
	}
	return nil
}

// DeletePlayerPresence removes the presence mirror on disconnect
func (rc *RedisClient) DeletePlayerPresence(playerID string) error {
	key := redis_utils.FormatPlayerPresenceKey(playerID)
	if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete presence: %v", err)
	}
	return nil
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
