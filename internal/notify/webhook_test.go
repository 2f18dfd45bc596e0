package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSendPostsEvent(t *testing.T) {
	received := make(chan message, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var m message
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			t.Errorf("decode: %v", err)
		}
		received <- m
	}))
	defer srv.Close()

	n := NewWebhook(srv.URL, zap.NewNop())
	n.Send("ticket_created", "Budi reported: printer jam")

	select {
	case m := <-received:
		if m.Event != "ticket_created" {
			t.Errorf("event = %q", m.Event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook never called")
	}
}

func TestSendSwallowsFailures(t *testing.T) {
	// Unreachable endpoint: Send must still return immediately and not panic.
	n := NewWebhook("http://127.0.0.1:1", zap.NewNop())
	done := make(chan struct{})
	go func() {
		n.Send("movement_approved", "whatever")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a dead endpoint")
	}
}

func TestEmptyURLDisables(t *testing.T) {
	n := NewWebhook("", zap.NewNop())
	n.Send("noop", "nothing should happen")
}
