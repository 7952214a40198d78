// Package protocol defines the JSON wire messages exchanged over the PvP
// websocket. Every message carries a "type" discriminator. The shapes are
// shared with the game client and validated against api/schema/ws_v1.schema.json.
package protocol

import "encoding/json"

// Client -> server message types.
const (
	TypeJoin        = "join"
	TypeReconnect   = "reconnect"
	TypeMove        = "move"
	TypeInspect     = "inspect"
	TypeInterrogate = "interrogate"
	TypeAccuse      = "accuse"
)

// Server -> client message types.
const (
	TypeWaiting              = "waiting"
	TypeMatched              = "matched"
	TypeOpponentMoved        = "opponent_moved"
	TypeOpponentInspected    = "opponent_inspected"
	TypeOpponentInterrogated = "opponent_interrogated"
	TypeOpponentAccused      = "opponent_accused"
	TypeAccusationResult     = "accusation_result"
	TypeTimerSync            = "timer_sync"
	TypeGameOver             = "game_over"
	TypeOpponentDisconnected = "opponent_disconnected"
	TypeOpponentReconnected  = "opponent_reconnected"
	TypeError                = "error"
)

// game_over reasons.
const (
	ReasonSolved               = "solved"
	ReasonTimerExpired         = "timer_expired"
	ReasonOpponentDisconnected = "opponent_disconnected"
)

type Join struct {
	Type       string `json:"type"`
	PlayerName string `json:"playerName"`
	Detective  string `json:"detective,omitempty"`
}

type Reconnect struct {
	Type         string `json:"type"`
	SessionToken string `json:"sessionToken"`
}

type Move struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

type Inspect struct {
	Type string `json:"type"`
	Clue string `json:"clue"`
}

type Interrogate struct {
	Type    string `json:"type"`
	Suspect string `json:"suspect"`
}

type Accuse struct {
	Type    string `json:"type"`
	Suspect string `json:"suspect"`
	Weapon  string `json:"weapon"`
	Room    string `json:"room"`
}

type Waiting struct {
	Type string `json:"type"`
}

type Matched struct {
	Type              string  `json:"type"`
	SessionID         string  `json:"sessionId"`
	SessionToken      string  `json:"sessionToken"`
	OpponentName      string  `json:"opponentName"`
	OpponentDetective *string `json:"opponentDetective"`
	TimeLimit         int     `json:"timeLimit"`
}

type OpponentMoved struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

// OpponentInspected and OpponentInterrogated deliberately carry no clue or
// suspect identity: the opponent learns that an action happened, never what
// it targeted.
type OpponentInspected struct {
	Type string `json:"type"`
}

type OpponentInterrogated struct {
	Type string `json:"type"`
}

type OpponentAccused struct {
	Type    string `json:"type"`
	Correct bool   `json:"correct"`
}

type AccusationResult struct {
	Type    string `json:"type"`
	Correct bool   `json:"correct"`
}

type TimerSync struct {
	Type      string `json:"type"`
	Remaining int    `json:"remaining"`
}

type GameOver struct {
	Type          string  `json:"type"`
	Winner        *string `json:"winner"`
	MyScore       int     `json:"myScore"`
	OpponentScore int     `json:"opponentScore"`
	Reason        string  `json:"reason"`
}

type OpponentDisconnected struct {
	Type        string `json:"type"`
	GracePeriod int    `json:"gracePeriod"`
}

type OpponentReconnected struct {
	Type string `json:"type"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) Error {
	return Error{Type: TypeError, Message: message}
}

// MessageType peeks at the discriminator of a raw inbound payload.
func MessageType(raw []byte) (string, bool) {
	var base struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &base); err != nil {
		return "", false
	}
	return base.Type, true
}
