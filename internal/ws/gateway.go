// Package ws is the websocket edge of the server: it upgrades connections,
// decodes the JSON protocol, runs FIFO matchmaking, and routes gameplay
// traffic into session actors.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"zk-detective-server/internal/protocol"
	"zk-detective-server/internal/session"
)

// Inbound message budget per connection. A detective client sends a handful
// of actions per minute; anything past this is a runaway loop.
const (
	msgRatePerSec = 20
	msgBurst      = 40
)

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter

	mu     sync.Mutex
	sess   *session.Session
	slot   int
	queued bool
}

// Send satisfies session.Conn. It never blocks the session actor: the buffered
// channel absorbs bursts and a closed channel is swallowed by safeSend.
func (c *client) Send(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		return
	}
	safeSend(c.send, msg)
}

// Close satisfies session.Conn; the actor calls it when a newer socket takes
// over the slot.
func (c *client) Close() {
	safeClose(c.send)
	_ = c.conn.Close()
}

func (c *client) setSession(s *session.Session, slot int) {
	c.mu.Lock()
	c.sess = s
	c.slot = slot
	c.queued = false
	c.mu.Unlock()
}

func (c *client) sessionRef() (*session.Session, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess, c.slot
}

type Gateway struct {
	store    *session.Store
	upgrader websocket.Upgrader

	mu      sync.Mutex
	waiting []*waiter
}

type waiter struct {
	c         *client
	name      string
	detective string
}

func NewGateway(store *session.Store) *Gateway {
	return &Gateway{
		store:    store,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{
		conn:    conn,
		send:    make(chan []byte, 16),
		limiter: rate.NewLimiter(rate.Limit(msgRatePerSec), msgBurst),
	}

	go g.writeLoop(c)
	g.readLoop(c)
}

// QueueLen reports how many players are waiting for a match.
func (g *Gateway) QueueLen() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.waiting)
}

func (g *Gateway) readLoop(c *client) {
	defer func() {
		g.unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if !c.limiter.Allow() {
			c.Send(protocol.NewError("Too many messages"))
			continue
		}
		typ, ok := protocol.MessageType(msg)
		if !ok {
			c.Send(protocol.NewError("Invalid JSON"))
			continue
		}
		g.handleInbound(c, typ, msg)
	}
}

func (g *Gateway) writeLoop(c *client) {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (g *Gateway) handleInbound(c *client, typ string, raw []byte) {
	switch typ {
	case protocol.TypeJoin:
		var join protocol.Join
		if err := json.Unmarshal(raw, &join); err != nil {
			c.Send(protocol.NewError("Invalid JSON"))
			return
		}
		g.handleJoin(c, join)
	case protocol.TypeReconnect:
		var rec protocol.Reconnect
		if err := json.Unmarshal(raw, &rec); err != nil {
			c.Send(protocol.NewError("Invalid JSON"))
			return
		}
		g.handleReconnect(c, rec)
	case protocol.TypeMove, protocol.TypeInspect, protocol.TypeInterrogate, protocol.TypeAccuse:
		g.handleGameMessage(c, typ, raw)
	default:
		c.Send(protocol.NewError("Unknown message type"))
	}
}

func (g *Gateway) handleJoin(c *client, join protocol.Join) {
	c.mu.Lock()
	if c.queued {
		c.mu.Unlock()
		c.Send(protocol.NewError("Already waiting for a match"))
		return
	}
	if c.sess != nil {
		c.mu.Unlock()
		c.Send(protocol.NewError("Already in a session"))
		return
	}
	c.queued = true
	c.mu.Unlock()

	g.mu.Lock()
	if len(g.waiting) > 0 {
		head := g.waiting[0]
		g.waiting = g.waiting[1:]
		g.mu.Unlock()
		g.match(head, &waiter{c: c, name: join.PlayerName, detective: join.Detective})
		return
	}
	g.waiting = append(g.waiting, &waiter{c: c, name: join.PlayerName, detective: join.Detective})
	g.mu.Unlock()

	c.Send(protocol.Waiting{Type: protocol.TypeWaiting})
	log.Info().Str("player", join.PlayerName).Msg("queued_for_match")
}

// match pairs the longest-waiting player with the newcomer. The matched
// payload carries each side's own reconnect token; tokens never cross over.
func (g *Gateway) match(w0, w1 *waiter) {
	s := g.store.Create(
		session.NewPlayer{Name: w0.name, Detective: w0.detective, Conn: w0.c},
		session.NewPlayer{Name: w1.name, Detective: w1.detective, Conn: w1.c},
	)
	w0.c.setSession(s, 0)
	w1.c.setSession(s, 1)

	limitSecs := int(s.TimeLimit.Seconds())
	pair := [2]*waiter{w0, w1}
	for i, w := range pair {
		opp := pair[1-i]
		w.c.Send(protocol.Matched{
			Type:              protocol.TypeMatched,
			SessionID:         s.ID,
			SessionToken:      s.Slots[i].ReconnectToken,
			OpponentName:      opp.name,
			OpponentDetective: optional(opp.detective),
			TimeLimit:         limitSecs,
		})
	}
}

func (g *Gateway) handleReconnect(c *client, rec protocol.Reconnect) {
	s, slot, ok := g.store.ByToken(rec.SessionToken)
	if !ok {
		c.Send(protocol.NewError("Session not found"))
		return
	}
	if !s.Attach(slot, c) {
		// Purged between lookup and delivery.
		c.Send(protocol.NewError("Session not found"))
		return
	}
	c.setSession(s, slot)
}

func (g *Gateway) handleGameMessage(c *client, typ string, raw []byte) {
	s, slot := c.sessionRef()
	if s == nil {
		c.Send(protocol.NewError("Not in a session"))
		return
	}

	var msg any
	var err error
	switch typ {
	case protocol.TypeMove:
		var m protocol.Move
		err = json.Unmarshal(raw, &m)
		msg = m
	case protocol.TypeInspect:
		var m protocol.Inspect
		err = json.Unmarshal(raw, &m)
		msg = m
	case protocol.TypeInterrogate:
		var m protocol.Interrogate
		err = json.Unmarshal(raw, &m)
		msg = m
	case protocol.TypeAccuse:
		var m protocol.Accuse
		err = json.Unmarshal(raw, &m)
		msg = m
	}
	if err != nil {
		c.Send(protocol.NewError("Invalid JSON"))
		return
	}
	if !s.HandleMessage(slot, msg) {
		c.setSession(nil, 0)
		c.Send(protocol.NewError("Session not found"))
	}
}

func (g *Gateway) unregister(c *client) {
	c.mu.Lock()
	sess, slot, queued := c.sess, c.slot, c.queued
	c.mu.Unlock()

	if queued {
		g.mu.Lock()
		for i, w := range g.waiting {
			if w.c == c {
				g.waiting = append(g.waiting[:i], g.waiting[i+1:]...)
				break
			}
		}
		g.mu.Unlock()
	}
	if sess != nil {
		sess.HandleDisconnect(slot, c)
	}
	safeClose(c.send)
}

func safeClose(ch chan []byte) {
	defer func() {
		_ = recover()
	}()
	close(ch)
}

func safeSend(ch chan []byte, msg []byte) {
	defer func() {
		_ = recover()
	}()
	select {
	case ch <- msg:
	default:
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
