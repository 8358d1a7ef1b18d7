package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type SessionInfo struct {
	ID string `json:"id"`
}

type ConnectPayload struct {
	Session SessionInfo `json:"session"`
}

type MovePayload struct {
	Cell int `json:"cell"`
}

type ModePayload struct {
	Mode string `json:"mode"`
}

type DifficultyPayload struct {
	Difficulty string `json:"difficulty"`
}

type ResponsePayload struct {
	Session SessionInfo  `json:"session"`
	Game    *entity.Game `json:"game,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool
	opCode  byte
	length  uint64
	payload []byte
}
