//go:build unit || e2e

package builder

import (
	"hotel-booking/internal/domain/roomtype"
	sqlc "hotel-booking/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type RoomTypeBuilder struct {
	ID               uuid.UUID
	HotelID          uuid.UUID
	Name             string
	TotalUnits       int
	NightlyRateCents int64
	CapacityPerUnit  int
}

func NewRoomTypeBuilder() *RoomTypeBuilder {
	return &RoomTypeBuilder{
		ID:               uuid.New(),
		HotelID:          uuid.New(),
		Name:             "Double",
		TotalUnits:       5,
		NightlyRateCents: 12000,
		CapacityPerUnit:  2,
	}
}

func (b *RoomTypeBuilder) With(mutate func(*RoomTypeBuilder)) *RoomTypeBuilder {
	mutate(b)
	return b
}

func (b *RoomTypeBuilder) BuildDomain() (*roomtype.RoomType, error) {
	return roomtype.New(b.ID, b.HotelID, b.Name, b.TotalUnits, b.NightlyRateCents, b.CapacityPerUnit)
}

func (b *RoomTypeBuilder) BuildInfra() sqlc.GetRoomTypeRow {
	return sqlc.GetRoomTypeRow{
		ID:               b.ID,
		HotelID:          b.HotelID,
		Name:             b.Name,
		TotalUnits:       int32(b.TotalUnits), // #nosec G115 -- test data
		NightlyRateCents: b.NightlyRateCents,
		CapacityPerUnit:  int32(b.CapacityPerUnit), // #nosec G115 -- test data
	}
}

func (b *RoomTypeBuilder) WithUnits(units int) *RoomTypeBuilder {
	b.TotalUnits = units
	return b
}
