package queries

//go:generate mockgen -destination=../../../tests/mock/queries/queries.go -package=queriesmock hotel-booking/internal/usecase/queries AvailabilityQueries,InventoryQueries,ReservationQueries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type RoomTypeView struct {
	ID               uuid.UUID
	HotelID          uuid.UUID
	Name             string
	TotalUnits       int
	NightlyRateCents int64
	CapacityPerUnit  int
}

type LineItemView struct {
	RoomTypeID     uuid.UUID
	RoomTypeName   string
	Quantity       int
	UnitPriceCents int64
}

type ReservationView struct {
	ID        uuid.UUID
	GuestID   uuid.UUID
	Status    string
	CheckIn   time.Time
	CheckOut  time.Time
	Items     []LineItemView
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ReservationListItem struct {
	ID         uuid.UUID
	Status     string
	CheckIn    time.Time
	CheckOut   time.Time
	TotalUnits int
	CreatedAt  time.Time
}

type ConflictView struct {
	ReservationID uuid.UUID
	Quantity      int
	CheckIn       time.Time
	CheckOut      time.Time
}

type AvailabilityView struct {
	RoomTypeID     uuid.UUID
	TotalUnits     int
	FreeUnits      int
	RequestedUnits int
	Shortfall      int
	Satisfiable    bool
	Conflicts      []ConflictView
}

type InventoryItem struct {
	RoomType    RoomTypeView
	FreeUnits   int
	Stale       bool
	RefreshedAt time.Time
}
