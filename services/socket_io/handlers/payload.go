package handlers

// Socket.io delivers JSON payloads as loosely typed arguments. These
// helpers do the defensive casting in one place so every handler can stay
// focused on protocol logic.

func getPayload(args []interface{}) (map[string]interface{}, bool) {
	if len(args) < 1 {
		return nil, false
	}
	data, ok := args[0].(map[string]interface{})
	return data, ok
}

func getString(payload map[string]interface{}, key string) (string, bool) {
	value, exists := payload[key].(string)
	return value, exists && value != ""
}
