package request

import (
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/pkg/patch"
	"hotel-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

// StayRequest carries the calendar part of a stay. Times fall back to the hotel defaults.
type StayRequest struct {
	CheckInDate  string  `json:"check_in_date" form:"check_in_date" binding:"required"`
	CheckInTime  *string `json:"check_in_time,omitempty" form:"check_in_time"`
	CheckOutDate string  `json:"check_out_date" form:"check_out_date" binding:"required"`
	CheckOutTime *string `json:"check_out_time,omitempty" form:"check_out_time"`
}

func (r StayRequest) ToInterval(defaultCheckIn, defaultCheckOut string) (stay.Interval, error) {
	return stay.ParseInterval(
		r.CheckInDate,
		patch.Coalesce(patch.NonBlank(r.CheckInTime), defaultCheckIn),
		r.CheckOutDate,
		patch.Coalesce(patch.NonBlank(r.CheckOutTime), defaultCheckOut),
	)
}

type CartItemRequest struct {
	RoomTypeID uuid.UUID `json:"room_type_id" binding:"required"`
	Quantity   int       `json:"quantity"`
}

type SubmitCartRequest struct {
	StayRequest
	Items  []CartItemRequest `json:"items" binding:"required,min=1,dive"`
	Guests *int              `json:"guests,omitempty" binding:"omitempty,min=1"`
}

func (r *SubmitCartRequest) ToInput(actorID uuid.UUID, contact string, interval stay.Interval, key *uuid.UUID) commands.SubmitCartInput {
	items := make([]commands.CartItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = commands.CartItem{RoomTypeID: it.RoomTypeID, Quantity: it.Quantity}
	}
	return commands.SubmitCartInput{
		GuestID:        actorID,
		GuestContact:   contact,
		Stay:           interval,
		Items:          items,
		Guests:         r.Guests,
		IdempotencyKey: key,
	}
}

type AvailabilityRequest struct {
	StayRequest
	Quantity *int `form:"quantity"`
}

// RequestedQuantity defaults to a single unit.
func (r AvailabilityRequest) RequestedQuantity() int {
	return patch.Coalesce(r.Quantity, 1)
}

type ListBookingsRequest struct {
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=200"`
	After   string `form:"after"`
	GuestID string `form:"guest_id" binding:"omitempty,uuid"`
}
