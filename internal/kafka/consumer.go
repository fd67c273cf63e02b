package kafka

import (
	"context"
	"log"
	"strings"
	"time"

	kf "github.com/segmentio/kafka-go"
)

type MessageHandler func(ctx context.Context, value []byte) error

// StartConsumer reads one topic in a consumer group and hands each message to
// handle. Handler errors are logged, not fatal: one bad event must not stall
// the partition. Returns when ctx is cancelled or the reader fails.
func StartConsumer(ctx context.Context, bootstrap, topic, groupID string, handle MessageHandler) error {
	r := kf.NewReader(kf.ReaderConfig{
		Brokers:  strings.Split(bootstrap, ","),
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
		MaxWait:  2 * time.Second,
	})
	defer r.Close()

	log.Printf("kafka consumer started group=%s topic=%s", groupID, topic)

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			return err
		}
		if err := handle(ctx, m.Value); err != nil {
			log.Printf("kafka: handle message topic=%s: %v", topic, err)
		}
	}
}
