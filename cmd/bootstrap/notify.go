package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"room-contention/internal/infra/notify"
	"room-contention/internal/pkg/config"
	"room-contention/internal/usecase/shared"

	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		NewDispatcher,
	),
)

type closer interface {
	Close() error
}

func NewDispatcher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.Dispatcher, error) {
	var d shared.Dispatcher
	switch cfg.Notify.Driver {
	case "log":
		return notify.NewLogDispatcher(logger), nil
	case "amqp":
		d = notify.NewAMQPDispatcher(cfg.Notify.AMQPURL, cfg.Notify.AMQPQueue)
	case "kafka":
		d = notify.NewKafkaDispatcher(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic)
	default:
		return nil, fmt.Errorf("unknown NOTIFY_DRIVER %q", cfg.Notify.Driver)
	}
	if c, ok := d.(closer); ok {
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return c.Close()
			},
		})
	}
	return d, nil
}
