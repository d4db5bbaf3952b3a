package reservation

import (
	"bytes"
	"errors"
	"slices"
	"time"

	"hotel-booking/internal/domain/stay"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart       = errors.New("reservation needs at least one line item")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidStatus   = errors.New("invalid reservation status")
	ErrMissingGuest    = errors.New("guest is required")
)

type Reservation struct {
	id        uuid.UUID
	guestID   uuid.UUID
	stay      stay.Interval
	items     []LineItem
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func NewReservation(guestID uuid.UUID, interval stay.Interval, items []LineItem, now time.Time) (*Reservation, error) {
	if guestID == uuid.Nil {
		return nil, ErrMissingGuest
	}
	if err := interval.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, it := range items {
		if it.quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	// stored precision; keyset cursors encode microseconds
	now = now.Truncate(time.Microsecond)
	return &Reservation{
		id:        uuid.New(),
		guestID:   guestID,
		stay:      interval,
		items:     slices.Clone(items),
		status:    StatusActive,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructReservation(
	id, guestID uuid.UUID,
	interval stay.Interval,
	items []LineItem,
	status Status,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:        id,
		guestID:   guestID,
		stay:      interval,
		items:     items,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Cancel moves an active reservation to cancelled. It reports false when the
// reservation was already cancelled, leaving it untouched.
func (r *Reservation) Cancel(now time.Time) bool {
	if r.status == StatusCancelled {
		return false
	}
	r.status = StatusCancelled
	r.updatedAt = now.Truncate(time.Microsecond)
	return true
}

func (r *Reservation) IsActive() bool {
	return r.status == StatusActive
}

// QuantityFor sums the units this reservation holds for roomTypeID.
func (r *Reservation) QuantityFor(roomTypeID uuid.UUID) int {
	total := 0
	for _, it := range r.items {
		if it.roomTypeID == roomTypeID {
			total += it.quantity
		}
	}
	return total
}

// RoomTypeIDs returns the distinct room types in ascending byte order.
func (r *Reservation) RoomTypeIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.items))
	for _, it := range r.items {
		ids = append(ids, it.roomTypeID)
	}
	return SortedUnique(ids)
}

func (r *Reservation) ID() uuid.UUID         { return r.id }
func (r *Reservation) GuestID() uuid.UUID    { return r.guestID }
func (r *Reservation) Stay() stay.Interval   { return r.stay }
func (r *Reservation) LineItems() []LineItem { return slices.Clone(r.items) }
func (r *Reservation) Status() Status        { return r.status }
func (r *Reservation) CreatedAt() time.Time  { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time  { return r.updatedAt }

// SortedUnique orders room type ids canonically so locks are always taken in the same order.
func SortedUnique(ids []uuid.UUID) []uuid.UUID {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return slices.Compact(out)
}
