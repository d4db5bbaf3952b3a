package components

import (
	"context"
	"log/slog"
	"os"

	"hotel-booking/internal/infra/memory"
	"hotel-booking/internal/infra/readstore"
	sqlc "hotel-booking/internal/infra/sqlc/generated"
	"hotel-booking/internal/infra/uow"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/projection"
	"hotel-booking/internal/usecase/queries"
	"hotel-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewSQLQueries,
		NewPersistence,
	),
)

// Persistence exposes one store implementation under every port the use cases need.
type Persistence struct {
	fx.Out

	UnitOfWork   shared.UnitOfWork
	Sweeper      shared.IdempotencySweeper
	Availability queries.AvailabilityReadStore
	Reservations queries.ReservationReadStore
	Catalog      queries.CatalogReadStore
	Projection   projection.Reads
}

func NewSQLQueries() *sqlc.Queries {
	return sqlc.New()
}

// NewPersistence selects the store by STORE_DRIVER. pool is nil for the memory driver.
func NewPersistence(cfg config.Config, pool *pgxpool.Pool, q *sqlc.Queries, clk clock.Clock, logger *slog.Logger) (Persistence, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore(cfg.Booking.LockTimeout, clk)
		if cfg.Store.SeedFile != "" {
			if err := seedMemoryStore(store, cfg.Store.SeedFile, logger); err != nil {
				return Persistence{}, err
			}
		}
		return Persistence{
			UnitOfWork:   store,
			Sweeper:      store,
			Availability: store,
			Reservations: store,
			Catalog:      store,
			Projection:   store,
		}, nil
	case config.StoreDriverPostgres:
		if pool == nil {
			return Persistence{}, errs.New("postgres store requires a connection pool")
		}
		pgUoW := uow.NewPostgresUoW(pool, q, clk, cfg.Booking.LockTimeout)
		reads := readstore.NewBookingReadStore(q, pool)
		return Persistence{
			UnitOfWork:   pgUoW,
			Sweeper:      pgUoW,
			Availability: reads,
			Reservations: reads,
			Catalog:      reads,
			Projection:   reads,
		}, nil
	default:
		return Persistence{}, errs.Newf("unknown store driver %q", cfg.Store.Driver)
	}
}

func seedMemoryStore(store *memory.Store, path string, logger *slog.Logger) error {
	f, err := os.Open(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return errs.Wrap(err, "open catalog seed")
	}
	defer func() { _ = f.Close() }()

	n, err := store.LoadCatalog(f)
	if err != nil {
		return errs.Wrapf(err, "load catalog seed %s", path)
	}
	logger.InfoContext(context.Background(), "memory store seeded", "room_types", n, "file", path)
	return nil
}
