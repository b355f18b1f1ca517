package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

func FormatChatHistoryKey(gameID string) string {
	return fmt.Sprintf("game:%s:chat", gameID)
}

func FormatPlayerPresenceKey(playerID string) string {
	return fmt.Sprintf("player:%s:presence", playerID)
}
