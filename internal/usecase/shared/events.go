package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventReservationCommitted EventKind = "reservation_committed"
	EventReservationCancelled EventKind = "reservation_cancelled"
)

// BookingEvent is handed to the notification service after a commit or cancellation.
type BookingEvent struct {
	Kind          EventKind   `json:"kind"`
	ReservationID uuid.UUID   `json:"reservation_id"`
	GuestID       uuid.UUID   `json:"guest_id"`
	GuestContact  string      `json:"guest_contact,omitempty"`
	CheckIn       time.Time   `json:"check_in"`
	CheckOut      time.Time   `json:"check_out"`
	RoomTypeIDs   []uuid.UUID `json:"room_type_ids"`
	OccurredAt    time.Time   `json:"occurred_at"`
}

// Notifier delivers booking events. Delivery is best effort; errors are logged by callers.
type Notifier interface {
	Notify(ctx context.Context, event BookingEvent) error
}

// ProjectionTrigger schedules a refresh of the inventory projection. It must not block.
type ProjectionTrigger interface {
	Enqueue(roomTypeIDs ...uuid.UUID)
}
