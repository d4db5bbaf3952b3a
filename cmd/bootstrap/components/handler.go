package components

import (
	"hotel-booking/internal/handler"
	"hotel-booking/internal/handler/api"
	"hotel-booking/internal/handler/middleware"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/usecase/commands"
	"hotel-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func(cmds commands.BookingCommands, q queries.ReservationQueries, cfg config.Config) *api.BookingHandler {
			return api.NewBookingHandler(cmds, q, cfg.Booking)
		},
		func(a queries.AvailabilityQueries, inv queries.InventoryQueries, cfg config.Config) *api.AvailabilityHandler {
			return api.NewAvailabilityHandler(a, inv, cfg.Booking)
		},
		middleware.NewAuthMiddleware,
		func(booking *api.BookingHandler, avail *api.AvailabilityHandler, auth *middleware.AuthMiddleware) handler.Handlers {
			return handler.Handlers{Booking: booking, Availability: avail, AuthMiddleware: auth}
		},
	),
	fx.Invoke(handler.NewRouter),
)
