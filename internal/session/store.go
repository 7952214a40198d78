package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Store owns the set of live sessions and the reconnect-token index. It is
// the only structure shared across sessions; everything inside a Session
// belongs to that session's actor.
type Store struct {
	cfg Config

	mu       sync.Mutex
	sessions map[string]*Session
	tokens   map[string]tokenRef
}

type tokenRef struct {
	sessionID string
	slot      int
}

func NewStore(cfg Config) *Store {
	return &Store{
		cfg:      cfg,
		sessions: map[string]*Session{},
		tokens:   map[string]tokenRef{},
	}
}

// Create pairs two players into a new session and starts its actor.
func (st *Store) Create(p0, p1 NewPlayer) *Session {
	s := st.create(p0, p1, time.Now())
	go s.run()
	return s
}

func (st *Store) create(p0, p1 NewPlayer, now time.Time) *Session {
	s := newSession(st, st.cfg, p0, p1, now)
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.tokens[s.Slots[0].ReconnectToken] = tokenRef{sessionID: s.ID, slot: 0}
	st.tokens[s.Slots[1].ReconnectToken] = tokenRef{sessionID: s.ID, slot: 1}
	st.mu.Unlock()
	log.Info().
		Str("session_id", s.ID).
		Str("player0", p0.Name).
		Str("player1", p1.Name).
		Msg("match_started")
	return s
}

// ByToken resolves a reconnect token to its session and slot.
func (st *Store) ByToken(token string) (*Session, int, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	ref, ok := st.tokens[token]
	if !ok {
		return nil, 0, false
	}
	s, ok := st.sessions[ref.sessionID]
	if !ok {
		return nil, 0, false
	}
	return s, ref.slot, true
}

// Count reports the number of live (not yet purged) sessions.
func (st *Store) Count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// remove is called by a session's own actor once its cleanup delay has
// passed; it invalidates both reconnect tokens.
func (st *Store) remove(s *Session) {
	st.mu.Lock()
	delete(st.sessions, s.ID)
	for _, slot := range s.Slots {
		delete(st.tokens, slot.ReconnectToken)
	}
	st.mu.Unlock()
	log.Info().Str("session_id", s.ID).Msg("session_purged")
}

func (st *Store) snapshot() []*Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	return out
}

// StartScheduler runs the lifecycle ticker: every interval it offers a tick
// to each live session, which does its own timer broadcast, expiry and
// grace-period work.
func (st *Store) StartScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				for _, s := range st.snapshot() {
					s.TryTick(now)
				}
			}
		}
	}()
}
