package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"room-contention/internal/infra/memstore"
	"room-contention/internal/infra/readstore"
	"room-contention/internal/infra/repository"
	"room-contention/internal/infra/uow"
	"room-contention/internal/pkg/config"
	"room-contention/internal/usecase/queries"
	"room-contention/internal/usecase/shared"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// StoreModule binds the persistence ports to the driver named by STORE_DRIVER.
var StoreModule = fx.Module("store",
	fx.Provide(
		NewStore,
	),
)

type StoreOut struct {
	fx.Out

	UoW         shared.UnitOfWork
	Tiers       shared.TierLookup
	WaitingList queries.WaitingListReadStore
	Statistics  queries.StatisticsReadStore
}

func NewStore(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (StoreOut, error) {
	switch cfg.Store.Driver {
	case "postgres":
		pool, err := NewDB(lc, cfg)
		if err != nil {
			return StoreOut{}, err
		}
		return StoreOut{
			UoW:         uow.NewPostgresUoW(pool),
			Tiers:       repository.NewTierRepository(pool),
			WaitingList: readstore.NewWaitingListReadStore(pool),
			Statistics:  readstore.NewStatisticsReadStore(pool),
		}, nil
	case "memory":
		store := memstore.New()
		for _, raw := range cfg.Store.SeedRooms {
			id, err := uuid.Parse(raw)
			if err != nil {
				return StoreOut{}, fmt.Errorf("invalid STORE_SEED_ROOMS entry %q: %w", raw, err)
			}
			store.AddRoom(id)
		}
		lc.Append(fx.Hook{
			OnStart: func(_ context.Context) error {
				logger.Warn("using in-memory store; state is lost on restart", "seed_rooms", len(cfg.Store.SeedRooms))
				return nil
			},
		})
		rs := memstore.NewReadStore(store)
		return StoreOut{UoW: store, Tiers: store, WaitingList: rs, Statistics: rs}, nil
	default:
		return StoreOut{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
