package components

import (
	"context"
	"log/slog"
	"time"

	"hotel-booking/internal/domain/availability"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/usecase"
	"hotel-booking/internal/usecase/commands"
	"hotel-booking/internal/usecase/projection"
	"hotel-booking/internal/usecase/queries"
	"hotel-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseProjectionModule,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
	fx.Invoke(startIdempotencySweeper),
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) availability.Calculator {
		return availability.NewCalculator(cfg.Booking.TurnoverBuffer)
	},
)

var usecaseProjectionModule = fx.Module("usecase/projection",
	fx.Provide(
		NewRefresher,
		func(r *projection.Refresher) shared.ProjectionTrigger { return r },
		func(r *projection.Refresher) queries.ProjectionReader { return r },
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(
			uow shared.UnitOfWork,
			calc availability.Calculator,
			trigger shared.ProjectionTrigger,
			notifier shared.Notifier,
			clk clock.Clock,
			cfg config.Config,
			logger *slog.Logger,
		) commands.BookingCommands {
			return commands.NewBookingCommands(uow, calc, trigger, notifier, clk, cfg.Booking, logger)
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewReservationQueries,
		queries.NewInventoryQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

// NewRefresher runs the projection workers for the lifetime of the app and warms
// every room type's snapshot on start.
func NewRefresher(
	lc fx.Lifecycle,
	reads projection.Reads,
	store projection.Store,
	calc availability.Calculator,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) (*projection.Refresher, error) {
	r, err := projection.NewRefresher(reads, store, calc, clk, cfg.Booking, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			r.Start()
			if err := r.Warm(ctx); err != nil {
				logger.WarnContext(ctx, "projection warm-up incomplete", "error", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return r.Stop(ctx)
		},
	})
	return r, nil
}

func startIdempotencySweeper(lc fx.Lifecycle, sweeper shared.IdempotencySweeper, cfg config.Config, logger *slog.Logger) {
	interval := cfg.Store.SweepInterval
	if interval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						n, err := sweeper.DeleteExpiredIdempotencyKeys(ctx)
						if err != nil {
							logger.ErrorContext(ctx, "idempotency sweep failed", "error", err)
							continue
						}
						if n > 0 {
							logger.InfoContext(ctx, "expired idempotency keys deleted", "count", n)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
