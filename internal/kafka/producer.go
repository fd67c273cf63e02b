package kafka

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	kf "github.com/segmentio/kafka-go"
)

type Writer interface {
	WriteJSON(ctx context.Context, v any) error
	Close() error
}

type writer struct {
	w *kf.Writer
}

// NewWriter creates a Kafka writer with configurable durability.
// Env overrides (optional):
//   - KAFKA_REQUIRED_ACKS: "none" | "one" | "all" (default: "one")
//   - KAFKA_ASYNC: "true" | "false" (default: "false")
func NewWriter(bootstrapServers, topic string) Writer {
	addr := strings.TrimSpace(bootstrapServers)
	if addr == "" {
		addr = "kafka:9092"
	}

	var requiredAcks kf.RequiredAcks
	switch strings.ToLower(strings.TrimSpace(os.Getenv("KAFKA_REQUIRED_ACKS"))) {
	case "none":
		requiredAcks = kf.RequireNone
	case "all":
		requiredAcks = kf.RequireAll
	default:
		requiredAcks = kf.RequireOne
	}

	return &writer{w: &kf.Writer{
		Addr:         kf.TCP(addr),
		Topic:        topic,
		Balancer:     &kf.LeastBytes{},
		RequiredAcks: requiredAcks,
		Async:        strings.EqualFold(os.Getenv("KAFKA_ASYNC"), "true"),
		BatchTimeout: 50 * time.Millisecond,
	}}
}

func (wr *writer) WriteJSON(ctx context.Context, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return wr.w.WriteMessages(ctx, kf.Message{Value: b, Time: time.Now()})
}

func (wr *writer) Close() error { return wr.w.Close() }
