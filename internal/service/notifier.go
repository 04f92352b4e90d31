package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"assochub/internal/hub"
	"assochub/internal/pkg"
)

// Broadcaster pushes a change notification to everyone listening. The key
// is the id of the entity the notification is about.
type Broadcaster interface {
	Publish(topic, kind, key string, payload any)
}

// Notifier fans a notification out to the websocket hub and, when a relay
// is configured, to the Kafka change feed. Both paths are fire-and-forget.
type Notifier struct {
	hub   *hub.Hub
	relay *pkg.KafkaProducer
}

func NewNotifier(h *hub.Hub, relay *pkg.KafkaProducer) *Notifier {
	return &Notifier{hub: h, relay: relay}
}

func (n *Notifier) Publish(topic, kind, key string, payload any) {
	n.hub.Publish(topic, kind, payload)

	if n.relay == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(hub.Message{Type: kind, Payload: payload})
		if err != nil {
			log.Error().Err(err).Str("kind", kind).Msg("relay marshal failed")
			return
		}
		if err := n.relay.Send(ctx, key, kind, data); err != nil {
			log.Error().Err(err).Str("kind", kind).Str("key", key).Msg("notification relay failed")
		}
	}()
}
