package roomtype

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNegativeUnits    = errors.New("total units cannot be negative")
	ErrNegativeRate     = errors.New("nightly rate cannot be negative")
	ErrInvalidOccupancy = errors.New("capacity per unit must be positive")
)

// RoomType is a catalog entry: a bookable category with a fixed count of interchangeable units.
// The booking engine reads it and never mutates it.
type RoomType struct {
	id               uuid.UUID
	hotelID          uuid.UUID
	name             string
	totalUnits       int
	nightlyRateCents int64
	capacityPerUnit  int
}

func New(id, hotelID uuid.UUID, name string, totalUnits int, nightlyRateCents int64, capacityPerUnit int) (*RoomType, error) {
	if totalUnits < 0 {
		return nil, ErrNegativeUnits
	}
	if nightlyRateCents < 0 {
		return nil, ErrNegativeRate
	}
	if capacityPerUnit <= 0 {
		return nil, ErrInvalidOccupancy
	}
	return &RoomType{
		id:               id,
		hotelID:          hotelID,
		name:             name,
		totalUnits:       totalUnits,
		nightlyRateCents: nightlyRateCents,
		capacityPerUnit:  capacityPerUnit,
	}, nil
}

func (r *RoomType) ID() uuid.UUID           { return r.id }
func (r *RoomType) HotelID() uuid.UUID      { return r.hotelID }
func (r *RoomType) Name() string            { return r.name }
func (r *RoomType) TotalUnits() int         { return r.totalUnits }
func (r *RoomType) NightlyRateCents() int64 { return r.nightlyRateCents }
func (r *RoomType) CapacityPerUnit() int    { return r.capacityPerUnit }
