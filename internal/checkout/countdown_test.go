package checkout

import (
	"testing"
	"time"
)

func TestCountdownExpiresSession(t *testing.T) {
	if testing.Short() {
		t.Skip("depende de tempo real")
	}

	s := NewSession("sess-1", testValidator(), 1, 0)
	c := StartCountdown(s)
	defer c.Stop()

	deadline := time.After(5 * time.Second)
	for !s.Expired() {
		select {
		case <-deadline:
			t.Fatal("session did not expire within 5s")
		case <-time.After(100 * time.Millisecond):
		}
	}

	if s.SecondsRemaining() != 0 {
		t.Errorf("countdown = %d, want 0", s.SecondsRemaining())
	}
}

func TestCountdownStopIsIdempotent(t *testing.T) {
	s := NewSession("sess-1", testValidator(), 900, 300)
	c := StartCountdown(s)
	c.Stop()
	c.Stop() // segunda chamada não pode entrar em pânico
}
