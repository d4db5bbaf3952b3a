package availability

import (
	"time"

	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/stay"

	"github.com/google/uuid"
)

// Calculator derives free units for a room type from the reservations that overlap a stay.
type Calculator struct {
	buffer time.Duration
}

func NewCalculator(turnoverBuffer time.Duration) Calculator {
	if turnoverBuffer < 0 {
		turnoverBuffer = 0
	}
	return Calculator{buffer: turnoverBuffer}
}

func (c Calculator) TurnoverBuffer() time.Duration {
	return c.buffer
}

// Conflict is one overlapping reservation and the units it holds on the room type.
type Conflict struct {
	ReservationID uuid.UUID
	Quantity      int
	Stay          stay.Interval
}

type Result struct {
	RoomTypeID    uuid.UUID
	TotalUnits    int
	ConsumedUnits int
	FreeUnits     int
	Conflicts     []Conflict
}

// Shortfall is how many of requested units cannot be served.
func (r Result) Shortfall(requested int) int {
	if requested <= r.FreeUnits {
		return 0
	}
	return requested - r.FreeUnits
}

func (r Result) CanServe(requested int) bool {
	return r.Shortfall(requested) == 0
}

// Compute sums the units held by active reservations overlapping requested.
// Reservations that do not reference roomTypeID or are cancelled are ignored, so
// callers may pass a coarsely pre-filtered set.
func (c Calculator) Compute(roomTypeID uuid.UUID, totalUnits int, requested stay.Interval, existing []*reservation.Reservation) (Result, error) {
	if err := requested.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{RoomTypeID: roomTypeID, TotalUnits: totalUnits}
	consumed := 0
	for _, r := range existing {
		if !r.IsActive() {
			continue
		}
		qty := r.QuantityFor(roomTypeID)
		if qty == 0 {
			continue
		}
		overlaps, err := stay.Overlaps(r.Stay(), requested, c.buffer)
		if err != nil {
			return Result{}, err
		}
		if !overlaps {
			continue
		}
		consumed += qty
		res.Conflicts = append(res.Conflicts, Conflict{
			ReservationID: r.ID(),
			Quantity:      qty,
			Stay:          r.Stay(),
		})
	}

	res.ConsumedUnits = consumed
	res.FreeUnits = max(0, totalUnits-consumed)
	return res, nil
}
