package converter

import (
	"fmt"
	"math"

	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/roomtype"
	"hotel-booking/internal/domain/stay"
	sqlc "hotel-booking/internal/infra/sqlc/generated"
	"hotel-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

func ReservationToInfra(res *reservation.Reservation) (sqlc.CreateReservationParams, []sqlc.CreateLineItemParams) {
	params := sqlc.CreateReservationParams{
		ID:         res.ID(),
		GuestID:    res.GuestID(),
		CheckInAt:  pgconv.TimeToPgtype(res.Stay().Start()),
		CheckOutAt: pgconv.TimeToPgtype(res.Stay().End()),
		Status:     res.Status().String(),
		CreatedAt:  pgconv.TimeToPgtype(res.CreatedAt()),
		UpdatedAt:  pgconv.TimeToPgtype(res.UpdatedAt()),
	}

	items := res.LineItems()
	lines := make([]sqlc.CreateLineItemParams, len(items))
	for i, it := range items {
		if it.Quantity() > math.MaxInt32 {
			panic(fmt.Sprintf("quantity out of int32 range: %d", it.Quantity()))
		}
		lines[i] = sqlc.CreateLineItemParams{
			ReservationID:  res.ID(),
			RoomTypeID:     it.RoomTypeID(),
			Quantity:       int32(it.Quantity()), // #nosec G115 -- range checked above
			UnitPriceCents: it.UnitPriceCents(),
		}
	}
	return params, lines
}

// ReservationFromInfra rebuilds the aggregate from its row and line items.
func ReservationFromInfra(row sqlc.Reservations, items []sqlc.ListLineItemsByReservationIDsRow) (*reservation.Reservation, error) {
	interval, err := stay.FromTimestamps(pgconv.TimeFromPgtype(row.CheckInAt), pgconv.TimeFromPgtype(row.CheckOutAt))
	if err != nil {
		return nil, err
	}
	status, err := reservation.ParseStatus(row.Status)
	if err != nil {
		return nil, err
	}

	lines := make([]reservation.LineItem, 0, len(items))
	for _, it := range items {
		line, err := reservation.NewLineItem(it.RoomTypeID, int(it.Quantity), it.UnitPriceCents)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return reservation.ReconstructReservation(
		row.ID,
		row.GuestID,
		interval,
		lines,
		status,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}

// GroupLineItems indexes line item rows by reservation.
func GroupLineItems(rows []sqlc.ListLineItemsByReservationIDsRow) map[uuid.UUID][]sqlc.ListLineItemsByReservationIDsRow {
	out := make(map[uuid.UUID][]sqlc.ListLineItemsByReservationIDsRow)
	for _, r := range rows {
		out[r.ReservationID] = append(out[r.ReservationID], r)
	}
	return out
}

func RoomTypeFromInfra(id, hotelID uuid.UUID, name string, totalUnits int32, nightlyRateCents int64, capacityPerUnit int32) (*roomtype.RoomType, error) {
	return roomtype.New(id, hotelID, name, int(totalUnits), nightlyRateCents, int(capacityPerUnit))
}
