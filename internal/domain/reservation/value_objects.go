package reservation

import (
	"errors"

	"github.com/google/uuid"
)

var ErrNegativePrice = errors.New("price cannot be negative")

// LineItem reserves quantity units of one room type.
type LineItem struct {
	roomTypeID     uuid.UUID
	quantity       int
	unitPriceCents int64
}

func NewLineItem(roomTypeID uuid.UUID, quantity int, unitPriceCents int64) (LineItem, error) {
	if quantity < 1 {
		return LineItem{}, ErrInvalidQuantity
	}
	if unitPriceCents < 0 {
		return LineItem{}, ErrNegativePrice
	}
	return LineItem{
		roomTypeID:     roomTypeID,
		quantity:       quantity,
		unitPriceCents: unitPriceCents,
	}, nil
}

func (l LineItem) RoomTypeID() uuid.UUID { return l.roomTypeID }
func (l LineItem) Quantity() int         { return l.quantity }

// UnitPriceCents is the nightly rate captured when the reservation was admitted.
func (l LineItem) UnitPriceCents() int64 { return l.unitPriceCents }
