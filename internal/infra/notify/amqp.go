package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"room-contention/internal/pkg/errs"
	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPDispatcher publishes persistent JSON messages to a durable queue on the
// default exchange. The channel is reopened lazily after a broker disconnect.
type AMQPDispatcher struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPDispatcher(url, queue string) *AMQPDispatcher {
	return &AMQPDispatcher{url: url, queue: queue}
}

func (d *AMQPDispatcher) channel() (*amqp.Channel, error) {
	if d.ch != nil && !d.ch.IsClosed() {
		return d.ch, nil
	}
	if d.conn == nil || d.conn.IsClosed() {
		conn, err := amqp.Dial(d.url)
		if err != nil {
			return nil, errs.Wrap(err, "dial amqp broker")
		}
		d.conn = conn
	}
	ch, err := d.conn.Channel()
	if err != nil {
		return nil, errs.Wrap(err, "open amqp channel")
	}
	if _, err := ch.QueueDeclare(d.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, errs.Wrap(err, "declare queue "+d.queue)
	}
	d.ch = ch
	return ch, nil
}

func (d *AMQPDispatcher) Dispatch(ctx context.Context, userID uuid.UUID, msg shared.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return errs.Wrap(err, "marshal notification")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ch, err := d.channel()
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.EntryID.String(),
		Type:         string(msg.Kind),
		Timestamp:    time.Now().UTC(),
		Headers:      amqp.Table{"user_id": userID.String()},
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", d.queue, false, false, pub); err != nil {
		return errs.Wrap(err, "publish notification")
	}
	return nil
}

func (d *AMQPDispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ch != nil {
		if err := d.ch.Close(); err != nil {
			slog.Warn("failed to close amqp channel", "error", err.Error())
		}
	}
	if d.conn != nil && !d.conn.IsClosed() {
		return d.conn.Close()
	}
	return nil
}
