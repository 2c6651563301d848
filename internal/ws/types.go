package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove     MessageType = "move"
	MessageTypeDrop     MessageType = "drop"
	MessageTypePosition MessageType = "position"
	MessageTypeError    MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MovePayload names a move by coordinates such as "e2" and "e4".
type MovePayload struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// DropPayload is the end of a drag gesture: the square the piece was picked up
// from and the pixel it was released at.
type DropPayload struct {
	From      string  `json:"from"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	CellSize  float64 `json:"cellSize"`
	Promotion string  `json:"promotion,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
