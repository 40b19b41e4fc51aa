package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"room-contention/internal/pkg/errs"
	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// KafkaDispatcher writes one message per notification keyed by user id, so
// one guest's notifications stay ordered within a partition.
type KafkaDispatcher struct {
	writer *kafka.Writer
}

func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	return &KafkaDispatcher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			MaxAttempts:            3,
			AllowAutoTopicCreation: true,
			Logger:                 kafka.LoggerFunc(func(string, ...any) {}),
			ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
				slog.Error("kafka writer error", "message", msg, "args", args)
			}),
		},
	}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, userID uuid.UUID, msg shared.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return errs.Wrap(err, "marshal notification")
	}
	err = d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(userID.String()),
		Value: body,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(msg.Kind)},
			{Key: "entry_id", Value: []byte(msg.EntryID.String())},
		},
	})
	if err != nil {
		return errs.Wrap(err, "write notification")
	}
	return nil
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}
