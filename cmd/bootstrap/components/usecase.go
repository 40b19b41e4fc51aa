package components

import (
	"room-contention/internal/pkg/clock"
	"room-contention/internal/pkg/config"
	"room-contention/internal/usecase/commands"
	"room-contention/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.LockConfig { return cfg.Lock },
	func(cfg config.Config) config.WaitlistConfig { return cfg.Waitlist },
	func(cfg config.Config) config.NotifyConfig { return cfg.Notify },
	commands.NewRoomGuard,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewConflictDetector,
		commands.NewNotificationScheduler,
		commands.NewExpiryReaper,
		commands.NewWaitingListManager,
		commands.NewResolutionService,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewWaitingListQueries,
		queries.NewStatisticsQueries,
	),
)
