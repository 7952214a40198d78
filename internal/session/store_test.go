package session

import (
	"context"
	"testing"
	"time"

	"zk-detective-server/internal/protocol"
)

func TestCreateSeedsSlots(t *testing.T) {
	st := NewStore(testConfig())
	c0 := &fakeConn{}
	c1 := &fakeConn{}

	s := st.create(NewPlayer{Name: "ada", Conn: c0}, NewPlayer{Name: "bob", Conn: c1}, time.Now())

	if st.Count() != 1 {
		t.Fatalf("Count = %d, want 1", st.Count())
	}
	for i, slot := range s.Slots {
		if slot.CurrentRoom != "bedroom" {
			t.Fatalf("slot %d CurrentRoom = %q, want bedroom", i, slot.CurrentRoom)
		}
		if _, ok := slot.RoomsVisited["bedroom"]; !ok {
			t.Fatalf("slot %d starting room not seeded in RoomsVisited", i)
		}
		if slot.ClueCount != 0 || slot.WrongAccusations != 0 {
			t.Fatalf("slot %d counters not zeroed", i)
		}
		if slot.ReconnectToken == "" {
			t.Fatalf("slot %d has no reconnect token", i)
		}
	}
	if s.Slots[0].ReconnectToken == s.Slots[1].ReconnectToken {
		t.Fatal("both slots got the same reconnect token")
	}
}

func TestByTokenResolvesSlot(t *testing.T) {
	st := NewStore(testConfig())
	s := st.create(NewPlayer{Name: "ada"}, NewPlayer{Name: "bob"}, time.Now())

	got, slot, ok := st.ByToken(s.Slots[1].ReconnectToken)
	if !ok {
		t.Fatal("token lookup failed")
	}
	if got != s || slot != 1 {
		t.Fatalf("ByToken = (%v, %d), want session slot 1", got.ID, slot)
	}
	if _, _, ok := st.ByToken("no-such-token"); ok {
		t.Fatal("unknown token resolved")
	}
}

func TestTokensUniqueAcrossSessions(t *testing.T) {
	st := NewStore(testConfig())
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		s := st.create(NewPlayer{Name: "ada"}, NewPlayer{Name: "bob"}, time.Now())
		for _, slot := range s.Slots {
			if seen[slot.ReconnectToken] {
				t.Fatalf("duplicate reconnect token %q", slot.ReconnectToken)
			}
			seen[slot.ReconnectToken] = true
		}
	}
}

func TestRemoveInvalidatesBothTokens(t *testing.T) {
	st := NewStore(testConfig())
	s := st.create(NewPlayer{Name: "ada"}, NewPlayer{Name: "bob"}, time.Now())

	st.remove(s)

	if st.Count() != 0 {
		t.Fatalf("Count = %d after remove, want 0", st.Count())
	}
	for i, slot := range s.Slots {
		if _, _, ok := st.ByToken(slot.ReconnectToken); ok {
			t.Fatalf("slot %d token still resolves after remove", i)
		}
	}
}

func TestSchedulerTicksLiveSessions(t *testing.T) {
	st := NewStore(testConfig())
	c0 := &fakeConn{}
	c1 := &fakeConn{}
	st.Create(NewPlayer{Name: "ada", Conn: c0}, NewPlayer{Name: "bob", Conn: c1})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	st.StartScheduler(ctx, 5*time.Millisecond)

	deadline := time.After(2 * time.Second)
	for c0.countType(protocol.TimerSync{}) == 0 || c1.countType(protocol.TimerSync{}) == 0 {
		select {
		case <-deadline:
			t.Fatal("scheduler never ticked the session")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
