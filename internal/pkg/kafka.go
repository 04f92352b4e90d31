package pkg

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer relays broadcast notifications to a Kafka topic so offline
// integrations can consume the same change feed the websocket clients see.
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func NewKafkaProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &KafkaProducer{writer: w, topic: cfg.Topic}, nil
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Send produces one message keyed by entity id, so all notifications for
// the same entity land in the same partition. The kind rides along as a
// header for consumers that filter before decoding.
func (p *KafkaProducer) Send(ctx context.Context, key, kind string, value []byte) error {
	msg := kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: "kind", Value: []byte(kind)}},
	}
	return p.writer.WriteMessages(ctx, msg)
}
