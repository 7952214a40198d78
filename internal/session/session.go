// Package session owns the state of live PvP matches. Each Session runs as
// a single-goroutine actor fed by an event channel, so all reads and writes
// of slot state are serialized without locks; the Store is the only
// structure shared across sessions.
package session

import (
	"time"

	"zk-detective-server/internal/game"
)

// Conn is the transport handle for one live player connection. Sends are
// fire-and-forget: a dead socket surfaces separately through the disconnect
// path, so Send failures are swallowed by the implementation.
type Conn interface {
	Send(v any)
	Close()
}

// Config carries the match tunables a Store stamps onto every new session.
type Config struct {
	TimeLimit    time.Duration
	GracePeriod  time.Duration
	CleanupDelay time.Duration
	StartingRoom string
	Solution     game.Solution
}

// PlayerSlot is one of the two player positions in a session. All fields are
// owned by the session actor after creation; ReconnectToken, Name and
// Detective are immutable and safe to read from outside.
type PlayerSlot struct {
	Name      string
	Detective string // cosmetic choice, empty if none

	Conn             Conn // nil while disconnected
	CurrentRoom      string
	RoomsVisited     map[string]struct{}
	ClueCount        int
	WrongAccusations int

	ReconnectToken string
	DisconnectedAt time.Time // zero while connected
}

// Session is one two-player match. The exported identity fields are set at
// creation and never change; everything else belongs to the actor goroutine.
type Session struct {
	ID        string
	Slots     [2]*PlayerSlot
	Solution  game.Solution
	TimeLimit time.Duration
	StartedAt time.Time

	cfg   Config
	store *Store

	finished   bool
	finishedAt time.Time
	removed    bool

	inbox chan event
	done  chan struct{}
}

// NewPlayer is the matchmaking-side description of one side of a match.
type NewPlayer struct {
	Name      string
	Detective string
	Conn      Conn
}

func newSession(store *Store, cfg Config, p0, p1 NewPlayer, now time.Time) *Session {
	makeSlot := func(p NewPlayer) *PlayerSlot {
		return &PlayerSlot{
			Name:           p.Name,
			Detective:      p.Detective,
			Conn:           p.Conn,
			CurrentRoom:    cfg.StartingRoom,
			RoomsVisited:   map[string]struct{}{cfg.StartingRoom: {}},
			ReconnectToken: NewToken(),
		}
	}
	return &Session{
		ID:        NewID(),
		Slots:     [2]*PlayerSlot{makeSlot(p0), makeSlot(p1)},
		Solution:  cfg.Solution,
		TimeLimit: cfg.TimeLimit,
		StartedAt: now,
		cfg:       cfg,
		store:     store,
		inbox:     make(chan event, 64),
		done:      make(chan struct{}),
	}
}

func opponentIndex(slot int) int {
	return 1 - slot
}

// detectivePtr renders the optional cosmetic choice the way the wire wants
// it: null rather than "".
func detectivePtr(detective string) *string {
	if detective == "" {
		return nil
	}
	return &detective
}
