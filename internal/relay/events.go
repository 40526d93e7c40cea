package relay

import "encoding/json"

// Inbound event names.
const (
	EventJoinRoom   = "joinRoom"
	EventDraw       = "draw"
	EventGuess      = "guess"
	EventDisconnect = "disconnect"
)

// Outbound event names.
const (
	EventPlayerJoined = "playerJoined"
	EventCorrectGuess = "correctGuess"
)

type JoinPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type DrawPayload struct {
	RoomID string          `json:"roomId"`
	Data   json.RawMessage `json:"data"`
}

type GuessPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	Guess      string `json:"guess"`
}

type PlayerJoined struct {
	PlayerName string `json:"playerName"`
}

type CorrectGuess struct {
	PlayerName string `json:"playerName"`
}
