package notify

import (
	"context"
	"log/slog"

	"hotel-booking/internal/usecase/shared"
)

// LogNotifier records events in the application log when no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, event shared.BookingEvent) error {
	n.logger.InfoContext(ctx, "booking event",
		"kind", string(event.Kind),
		"reservation_id", event.ReservationID,
		"guest_id", event.GuestID,
		"check_in", event.CheckIn,
		"check_out", event.CheckOut,
	)
	return nil
}
