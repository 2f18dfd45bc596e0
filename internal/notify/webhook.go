// Package notify posts domain events to a chat webhook. Delivery is
// best-effort: failures are logged and swallowed, never surfaced to the
// caller, and never affect ticket or ledger state.
package notify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Notifier interface {
	// Send fires asynchronously and returns immediately.
	Send(event, text string)
}

type webhookNotifier struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

// NewWebhook builds a fire-and-forget notifier. An empty url disables it.
func NewWebhook(url string, log *zap.Logger) Notifier {
	return &webhookNotifier{
		url: url,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		log: log,
	}
}

type message struct {
	Event string `json:"event"`
	Text  string `json:"text"`
}

func (n *webhookNotifier) Send(event, text string) {
	if n.url == "" {
		return
	}
	go func() {
		body, err := json.Marshal(message{Event: event, Text: text})
		if err != nil {
			return
		}
		resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
		if err != nil {
			n.log.Warn("webhook delivery failed", zap.String("event", event), zap.Error(err))
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			n.log.Warn("webhook rejected", zap.String("event", event), zap.Int("status", resp.StatusCode))
		}
	}()
}

// Noop returns a notifier that drops everything. Used in tests and when no
// webhook is configured at all.
func Noop() Notifier {
	return noopNotifier{}
}

type noopNotifier struct{}

func (noopNotifier) Send(string, string) {}
