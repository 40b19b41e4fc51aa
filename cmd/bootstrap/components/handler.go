package components

import (
	"room-contention/internal/handler"
	"room-contention/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewConflictHandler,
		api.NewWaitingListHandler,
		api.NewStatisticsHandler,
		func(c *api.ConflictHandler, w *api.WaitingListHandler, s *api.StatisticsHandler) handler.Handlers {
			return handler.Handlers{Conflicts: c, WaitingList: w, Statistics: s}
		},
	),
	fx.Invoke(handler.NewRouter),
)
