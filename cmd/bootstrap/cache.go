package bootstrap

import (
	"context"
	"log/slog"

	infraprojection "hotel-booking/internal/infra/projection"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/projection"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewProjectionStore,
	),
)

// NewProjectionStore keeps inventory snapshots in Redis when REDIS_ADDR is set and in
// process memory otherwise.
func NewProjectionStore(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) projection.Store {
	if cfg.Redis.Addr == "" {
		logger.Info("inventory projection kept in memory")
		return infraprojection.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return errs.Wrap(err, "ping redis")
			}
			logger.Info("inventory projection kept in redis", "addr", cfg.Redis.Addr)
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return infraprojection.NewRedisStore(client, cfg.Redis.TTL)
}
