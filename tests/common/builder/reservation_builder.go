//go:build unit || e2e

package builder

import (
	"time"

	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/stay"
	reqdto "hotel-booking/internal/handler/dto/request"
	sqlc "hotel-booking/internal/infra/sqlc/generated"
	"hotel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type LineItem struct {
	RoomTypeID     uuid.UUID
	RoomTypeName   string
	Quantity       int
	UnitPriceCents int64
}

type ReservationBuilder struct {
	ID        uuid.UUID
	GuestID   uuid.UUID
	CheckIn   time.Time
	CheckOut  time.Time
	Status    string
	Items     []LineItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Date(2030, 2, 1, 9, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		ID:       uuid.New(),
		GuestID:  uuid.New(),
		CheckIn:  time.Date(2030, 3, 1, 14, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2030, 3, 3, 11, 0, 0, 0, time.UTC),
		Status:   reservation.StatusActive.String(),
		Items: []LineItem{{
			RoomTypeID:     uuid.New(),
			RoomTypeName:   "Double",
			Quantity:       1,
			UnitPriceCents: 12000,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	interval, err := stay.FromTimestamps(b.CheckIn, b.CheckOut)
	if err != nil {
		return nil, err
	}
	status, err := reservation.ParseStatus(b.Status)
	if err != nil {
		return nil, err
	}
	items := make([]reservation.LineItem, 0, len(b.Items))
	for _, it := range b.Items {
		line, err := reservation.NewLineItem(it.RoomTypeID, it.Quantity, it.UnitPriceCents)
		if err != nil {
			return nil, err
		}
		items = append(items, line)
	}
	return reservation.ReconstructReservation(b.ID, b.GuestID, interval, items, status, b.CreatedAt, b.UpdatedAt), nil
}

func (b *ReservationBuilder) BuildInfra() (sqlc.Reservations, []sqlc.ListLineItemsByReservationIDsRow) {
	row := sqlc.Reservations{
		ID:         b.ID,
		GuestID:    b.GuestID,
		CheckInAt:  pgtype.Timestamptz{Time: b.CheckIn, Valid: true},
		CheckOutAt: pgtype.Timestamptz{Time: b.CheckOut, Valid: true},
		Status:     b.Status,
		CreatedAt:  pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
		UpdatedAt:  pgtype.Timestamptz{Time: b.UpdatedAt, Valid: true},
	}
	items := make([]sqlc.ListLineItemsByReservationIDsRow, len(b.Items))
	for i, it := range b.Items {
		items[i] = sqlc.ListLineItemsByReservationIDsRow{
			ReservationID:  b.ID,
			RoomTypeID:     it.RoomTypeID,
			RoomTypeName:   it.RoomTypeName,
			Quantity:       int32(it.Quantity), // #nosec G115 -- test data
			UnitPriceCents: it.UnitPriceCents,
		}
	}
	return row, items
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	items := make([]queries.LineItemView, len(b.Items))
	for i, it := range b.Items {
		items[i] = queries.LineItemView{
			RoomTypeID:     it.RoomTypeID,
			RoomTypeName:   it.RoomTypeName,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		}
	}
	return &queries.ReservationView{
		ID:        b.ID,
		GuestID:   b.GuestID,
		Status:    b.Status,
		CheckIn:   b.CheckIn,
		CheckOut:  b.CheckOut,
		Items:     items,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (b *ReservationBuilder) BuildSubmitRequestDTO() reqdto.SubmitCartRequest {
	checkIn := b.CheckIn.Format("15:04")
	checkOut := b.CheckOut.Format("15:04")
	items := make([]reqdto.CartItemRequest, len(b.Items))
	for i, it := range b.Items {
		items[i] = reqdto.CartItemRequest{RoomTypeID: it.RoomTypeID, Quantity: it.Quantity}
	}
	return reqdto.SubmitCartRequest{
		StayRequest: reqdto.StayRequest{
			CheckInDate:  b.CheckIn.Format(stay.DateLayout),
			CheckInTime:  &checkIn,
			CheckOutDate: b.CheckOut.Format(stay.DateLayout),
			CheckOutTime: &checkOut,
		},
		Items: items,
	}
}

// Fluent builder methods
func (b *ReservationBuilder) WithGuest(guestID uuid.UUID) *ReservationBuilder {
	b.GuestID = guestID
	return b
}

func (b *ReservationBuilder) WithStay(checkIn, checkOut time.Time) *ReservationBuilder {
	b.CheckIn = checkIn
	b.CheckOut = checkOut
	return b
}

func (b *ReservationBuilder) WithItem(roomTypeID uuid.UUID, quantity int) *ReservationBuilder {
	b.Items = []LineItem{{RoomTypeID: roomTypeID, RoomTypeName: "Double", Quantity: quantity, UnitPriceCents: 12000}}
	return b
}

func (b *ReservationBuilder) AsCancelled() *ReservationBuilder {
	b.Status = reservation.StatusCancelled.String()
	return b
}
