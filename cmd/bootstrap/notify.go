package bootstrap

import (
	"context"
	"log/slog"

	"hotel-booking/internal/infra/notify"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		NewNotifier,
	),
)

// NewNotifier publishes booking events to AMQP_URL, or logs them when it is unset.
func NewNotifier(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) shared.Notifier {
	if cfg.AMQP.URL == "" {
		return notify.NewLogNotifier(logger)
	}
	publisher := notify.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, logger)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	return publisher
}
