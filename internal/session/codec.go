// Package session implements the Session Manager: it owns the live
// transport endpoint per connected player and translates the wire's JSON
// client messages into room.Event values for the target room's actor.
package session

import (
	"encoding/json"
	"fmt"

	"holdemroom/holdem"
)

// ClientMessage is one inbound JSON frame. action is always required;
// amount/content are read only for the actions that use them.
type ClientMessage struct {
	Action  string `json:"action"`
	Amount  int64  `json:"amount"`
	Content string `json:"content"`
}

func parseClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("invalid message format: %w", err)
	}
	if msg.Action == "" {
		return ClientMessage{}, fmt.Errorf("missing action")
	}
	return msg, nil
}

// actionFromWire maps a client action string to the engine's ActionType.
// "start_game", "chat" and "leave" are handled by the caller before this
// is reached; anything else unrecognised is an invalid message.
func actionFromWire(action string) (holdem.ActionType, bool) {
	switch action {
	case "fold":
		return holdem.PlayerActionTypeFold, true
	case "check":
		return holdem.PlayerActionTypeCheck, true
	case "call":
		return holdem.PlayerActionTypeCall, true
	case "bet":
		return holdem.PlayerActionTypeBet, true
	case "raise":
		return holdem.PlayerActionTypeRaise, true
	case "all_in":
		return holdem.PlayerActionTypeAllin, true
	default:
		return 0, false
	}
}

// ErrorResponse is the server->client payload for a rejected message.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrorMessage is the outer envelope wrapping an ErrorResponse.
type ErrorMessage struct {
	Type string        `json:"type"`
	Data ErrorResponse `json:"data"`
}
