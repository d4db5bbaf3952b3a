package shared

import (
	"context"
	"time"

	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/roomtype"
	"hotel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrLockTimeout is returned by UnitOfWork implementations when the admission
// locks for a room type set could not be acquired within the configured wait.
var ErrLockTimeout = errs.New("room type lock wait exceeded")

type UnitOfWork interface {
	// WithinRoomTypes runs fn in one transaction while holding the exclusive admission
	// lock of every room type in roomTypeIDs. Locks are taken in canonical order and
	// released after commit or rollback. Operations on disjoint room types run in parallel.
	WithinRoomTypes(ctx context.Context, roomTypeIDs []uuid.UUID, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	Idempotency() IdempotencyRepository
	Reads() CommandReads
}

type CommandReads interface {
	RoomTypeByID(ctx context.Context, id uuid.UUID) (*roomtype.RoomType, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// ActiveReservations returns active reservations holding roomTypeID whose stay
	// intersects [from, to). Callers apply the precise overlap predicate.
	ActiveReservations(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]*reservation.Reservation, error)
	IdempotencyByKey(ctx context.Context, key, guestID uuid.UUID) (*IdempotencyRecord, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	// UpdateStatus persists the status and updated-at of res.
	UpdateStatus(ctx context.Context, res *reservation.Reservation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type IdempotencyRepository interface {
	Save(ctx context.Context, rec IdempotencyRecord) error
}

type IdempotencyRecord struct {
	Key           uuid.UUID
	GuestID       uuid.UUID
	RequestHash   string
	ReservationID uuid.UUID
	ExpiresAt     time.Time
}

// IdempotencySweeper drops idempotency records whose expiry has passed.
type IdempotencySweeper interface {
	DeleteExpiredIdempotencyKeys(ctx context.Context) (int64, error)
}
