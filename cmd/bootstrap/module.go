package bootstrap

import (
	"room-contention/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	StoreModule,
	LockModule,
	NotifyModule,
	components.UseCaseModule,
	components.HandlerModule,
	WorkerModule,
)
