package session

import (
	"time"

	"github.com/rs/zerolog/log"

	"zk-detective-server/internal/game"
	"zk-detective-server/internal/protocol"
)

type eventKind int

const (
	evMessage eventKind = iota
	evTick
	evDisconnect
	evAttach
)

type event struct {
	kind eventKind
	slot int
	conn Conn
	msg  any
	now  time.Time
}

// deliver hands an event to the actor. It reports false once the session has
// been purged, so callers can answer "session not found".
func (s *Session) deliver(ev event) bool {
	select {
	case s.inbox <- ev:
		return true
	case <-s.done:
		return false
	}
}

// HandleMessage routes a decoded gameplay message from the given slot into
// the session actor.
func (s *Session) HandleMessage(slot int, msg any) bool {
	return s.deliver(event{kind: evMessage, slot: slot, msg: msg, now: time.Now()})
}

// HandleDisconnect reports an ungraceful socket loss. The conn identifies
// which physical connection dropped; a signal for a socket that no longer
// owns the slot is ignored by the actor.
func (s *Session) HandleDisconnect(slot int, conn Conn) bool {
	return s.deliver(event{kind: evDisconnect, slot: slot, conn: conn, now: time.Now()})
}

// Attach binds a new live connection to the slot, force-closing any previous
// one, and replies to it with a matched-shaped snapshot.
func (s *Session) Attach(slot int, conn Conn) bool {
	return s.deliver(event{kind: evAttach, slot: slot, conn: conn, now: time.Now()})
}

// TryTick offers a scheduler tick without blocking; a session too busy to
// take it just waits for the next one.
func (s *Session) TryTick(now time.Time) {
	select {
	case s.inbox <- event{kind: evTick, now: now}:
	case <-s.done:
	default:
	}
}

func (s *Session) run() {
	for ev := range s.inbox {
		s.dispatch(ev)
		if s.removed {
			close(s.done)
			return
		}
	}
}

func (s *Session) dispatch(ev event) {
	switch ev.kind {
	case evMessage:
		s.handleMessage(ev.slot, ev.msg, ev.now)
	case evTick:
		s.handleTick(ev.now)
	case evDisconnect:
		s.handleDisconnect(ev.slot, ev.conn, ev.now)
	case evAttach:
		s.handleAttach(ev.slot, ev.conn, ev.now)
	}
}

func (s *Session) handleMessage(slot int, msg any, now time.Time) {
	me := s.Slots[slot]
	opp := s.Slots[opponentIndex(slot)]

	if s.finished {
		sendTo(me.Conn, protocol.NewError("Game is already over"))
		return
	}

	switch m := msg.(type) {
	case protocol.Move:
		me.CurrentRoom = m.Room
		me.RoomsVisited[m.Room] = struct{}{}
		sendTo(opp.Conn, protocol.OpponentMoved{Type: protocol.TypeOpponentMoved, Room: m.Room})
	case protocol.Inspect:
		me.ClueCount++
		sendTo(opp.Conn, protocol.OpponentInspected{Type: protocol.TypeOpponentInspected})
	case protocol.Interrogate:
		sendTo(opp.Conn, protocol.OpponentInterrogated{Type: protocol.TypeOpponentInterrogated})
	case protocol.Accuse:
		correct := s.Solution.Matches(m.Suspect, m.Weapon, m.Room)
		sendTo(me.Conn, protocol.AccusationResult{Type: protocol.TypeAccusationResult, Correct: correct})
		// Result only; the guessed tuple never reaches the opponent.
		sendTo(opp.Conn, protocol.OpponentAccused{Type: protocol.TypeOpponentAccused, Correct: correct})
		if correct {
			s.finish(now, slot, protocol.ReasonSolved)
		} else {
			me.WrongAccusations++
		}
	default:
		sendTo(me.Conn, protocol.NewError("Unknown message type"))
	}
}

func (s *Session) handleTick(now time.Time) {
	if s.finished {
		if now.Sub(s.finishedAt) >= s.cfg.CleanupDelay {
			s.store.remove(s)
			s.removed = true
		}
		return
	}

	elapsed := now.Sub(s.StartedAt)
	remaining := s.TimeLimit - elapsed
	if remaining < 0 {
		remaining = 0
	}
	sync := protocol.TimerSync{Type: protocol.TypeTimerSync, Remaining: int(remaining.Round(time.Second) / time.Second)}
	for _, slot := range s.Slots {
		sendTo(slot.Conn, sync)
	}

	if remaining <= 0 {
		// Score the full match window for both sides; higher score wins,
		// an exact tie has no winner.
		limitSecs := int(s.TimeLimit / time.Second)
		var scores [2]int
		for i, slot := range s.Slots {
			scores[i] = game.Score(limitSecs, slot.ClueCount, len(slot.RoomsVisited), slot.WrongAccusations)
		}
		winner := -1
		if scores[0] > scores[1] {
			winner = 0
		} else if scores[1] > scores[0] {
			winner = 1
		}
		s.finish(now, winner, protocol.ReasonTimerExpired)
		return
	}

	for i, slot := range s.Slots {
		if !slot.DisconnectedAt.IsZero() && now.Sub(slot.DisconnectedAt) >= s.cfg.GracePeriod {
			s.finish(now, opponentIndex(i), protocol.ReasonOpponentDisconnected)
			break
		}
	}
}

func (s *Session) handleDisconnect(slot int, conn Conn, now time.Time) {
	me := s.Slots[slot]
	if me.Conn != conn {
		// Stale socket; a newer connection already owns the slot.
		return
	}
	me.Conn = nil
	if s.finished {
		return
	}
	me.DisconnectedAt = now
	sendTo(s.Slots[opponentIndex(slot)].Conn, protocol.OpponentDisconnected{
		Type:        protocol.TypeOpponentDisconnected,
		GracePeriod: int(s.cfg.GracePeriod / time.Second),
	})
	log.Info().Str("session_id", s.ID).Int("slot", slot).Msg("player_disconnected")
}

func (s *Session) handleAttach(slot int, conn Conn, now time.Time) {
	me := s.Slots[slot]
	opp := s.Slots[opponentIndex(slot)]

	if old := me.Conn; old != nil && old != conn {
		old.Close()
	}
	me.Conn = conn
	me.DisconnectedAt = time.Time{}

	sendTo(opp.Conn, protocol.OpponentReconnected{Type: protocol.TypeOpponentReconnected})

	// A matched-shaped snapshot with the remaining time lets the client
	// rebuild its UI without a dedicated resume message.
	remaining := s.TimeLimit - now.Sub(s.StartedAt)
	if remaining < 0 {
		remaining = 0
	}
	sendTo(conn, protocol.Matched{
		Type:              protocol.TypeMatched,
		SessionID:         s.ID,
		SessionToken:      me.ReconnectToken,
		OpponentName:      opp.Name,
		OpponentDetective: detectivePtr(opp.Detective),
		TimeLimit:         int(remaining.Round(time.Second) / time.Second),
	})
	log.Info().Str("session_id", s.ID).Int("slot", slot).Msg("player_reconnected")
}

// finish seals the match outcome exactly once; later calls are no-ops.
func (s *Session) finish(now time.Time, winner int, reason string) {
	if s.finished {
		return
	}
	s.finished = true
	s.finishedAt = now

	elapsed := now.Sub(s.StartedAt)
	if elapsed > s.TimeLimit {
		elapsed = s.TimeLimit
	}
	elapsedSecs := int(elapsed / time.Second)

	var scores [2]int
	for i, slot := range s.Slots {
		scores[i] = game.Score(elapsedSecs, slot.ClueCount, len(slot.RoomsVisited), slot.WrongAccusations)
	}

	var winnerName *string
	if winner == 0 || winner == 1 {
		winnerName = &s.Slots[winner].Name
	}
	for i, slot := range s.Slots {
		sendTo(slot.Conn, protocol.GameOver{
			Type:          protocol.TypeGameOver,
			Winner:        winnerName,
			MyScore:       scores[i],
			OpponentScore: scores[opponentIndex(i)],
			Reason:        reason,
		})
	}
	log.Info().
		Str("session_id", s.ID).
		Str("reason", reason).
		Int("score0", scores[0]).
		Int("score1", scores[1]).
		Msg("game_over")
}

func sendTo(conn Conn, msg any) {
	if conn != nil {
		conn.Send(msg)
	}
}
