package queries

import (
	"context"
	"time"

	"hotel-booking/internal/domain/availability"
	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/roomtype"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrRoomTypeNotFound = errs.New("room type not found")
	ErrInvalidInterval  = errs.New("invalid stay interval")
	ErrInvalidQuantity  = errs.New("invalid quantity")
)

type AvailabilityReadStore interface {
	RoomTypeByID(ctx context.Context, id uuid.UUID) (*roomtype.RoomType, error)
	ActiveReservations(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]*reservation.Reservation, error)
}

type AvailabilityQueries interface {
	// Check computes free units for roomTypeID over interval from the authoritative store.
	Check(ctx context.Context, roomTypeID uuid.UUID, interval stay.Interval, requestedQty int) (*AvailabilityView, error)
}

type availabilityQueriesImpl struct {
	store AvailabilityReadStore
	calc  availability.Calculator
}

func NewAvailabilityQueries(store AvailabilityReadStore, calc availability.Calculator) AvailabilityQueries {
	return &availabilityQueriesImpl{store: store, calc: calc}
}

func (q *availabilityQueriesImpl) Check(ctx context.Context, roomTypeID uuid.UUID, interval stay.Interval, requestedQty int) (*AvailabilityView, error) {
	if err := interval.Validate(); err != nil {
		return nil, errs.Mark(err, ErrInvalidInterval)
	}
	if requestedQty < 1 {
		return nil, ErrInvalidQuantity
	}

	rt, err := q.store.RoomTypeByID(ctx, roomTypeID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrRoomTypeNotFound)
		}
		return nil, errs.Wrap(err, "load room type")
	}

	from, to := interval.Window(q.calc.TurnoverBuffer())
	existing, err := q.store.ActiveReservations(ctx, roomTypeID, from, to)
	if err != nil {
		return nil, errs.Wrap(err, "load overlapping reservations")
	}

	result, err := q.calc.Compute(rt.ID(), rt.TotalUnits(), interval, existing)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInterval)
	}

	return toAvailabilityView(result, requestedQty), nil
}

func toAvailabilityView(result availability.Result, requested int) *AvailabilityView {
	conflicts := make([]ConflictView, len(result.Conflicts))
	for i, c := range result.Conflicts {
		conflicts[i] = ConflictView{
			ReservationID: c.ReservationID,
			Quantity:      c.Quantity,
			CheckIn:       c.Stay.Start(),
			CheckOut:      c.Stay.End(),
		}
	}
	return &AvailabilityView{
		RoomTypeID:     result.RoomTypeID,
		TotalUnits:     result.TotalUnits,
		FreeUnits:      result.FreeUnits,
		RequestedUnits: requested,
		Shortfall:      result.Shortfall(requested),
		Satisfiable:    result.CanServe(requested),
		Conflicts:      conflicts,
	}
}
