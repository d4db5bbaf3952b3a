package commands

import (
	"fmt"
	"strings"

	"hotel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidInterval       = errs.New("invalid stay interval")
	ErrInvalidQuantity       = errs.New("invalid quantity")
	ErrInsufficientOccupancy = errs.New("insufficient occupancy")
	ErrCapacityRejected      = errs.New("insufficient capacity")
	ErrConcurrencyContention = errs.New("room type is busy, retry the request")
	ErrRoomTypeNotFound      = errs.New("room type not found")
	ErrReservationNotFound   = errs.New("reservation not found")
	ErrIdempotencyKeyReused  = errs.New("idempotency key reused with a different request")
)

// Shortfall describes one room type the cart could not be served from.
type Shortfall struct {
	RoomTypeID uuid.UUID `json:"room_type_id"`
	Requested  int       `json:"requested"`
	Free       int       `json:"free"`
	Shortfall  int       `json:"shortfall"`
}

// CapacityRejection lists every room type whose demand exceeded its free units.
// It matches ErrCapacityRejected.
type CapacityRejection struct {
	Shortfalls []Shortfall
}

func (e *CapacityRejection) Error() string {
	parts := make([]string, len(e.Shortfalls))
	for i, s := range e.Shortfalls {
		parts[i] = fmt.Sprintf("room type %s: requested %d, free %d", s.RoomTypeID, s.Requested, s.Free)
	}
	return ErrCapacityRejected.Error() + ": " + strings.Join(parts, "; ")
}

func (e *CapacityRejection) Is(target error) bool {
	return target == ErrCapacityRejected
}

// OccupancyShortfall reports how many guests the selected rooms cannot hold.
type OccupancyShortfall struct {
	Guests   int
	Capacity int
}

func (e *OccupancyShortfall) Error() string {
	return fmt.Sprintf("book more rooms to accommodate %d guests (selected rooms hold %d)", e.Guests, e.Capacity)
}

func (e *OccupancyShortfall) Is(target error) bool {
	return target == ErrInsufficientOccupancy
}
