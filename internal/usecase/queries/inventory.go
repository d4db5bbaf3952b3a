package queries

import (
	"context"

	"hotel-booking/internal/domain/roomtype"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/projection"

	"github.com/google/uuid"
)

var ErrHotelNotFound = errs.New("hotel not found")

type CatalogReadStore interface {
	// RoomTypesByHotel returns the hotel's room types ordered by name.
	// An unknown hotel yields an error of kind NotFound.
	RoomTypesByHotel(ctx context.Context, hotelID uuid.UUID) ([]*roomtype.RoomType, error)
}

// ProjectionReader is the display-side view of the inventory projection.
type ProjectionReader interface {
	Snapshot(ctx context.Context, roomTypeID uuid.UUID) (*projection.Snapshot, error)
	Compute(ctx context.Context, rt *roomtype.RoomType) (*projection.Snapshot, error)
	Enqueue(roomTypeIDs ...uuid.UUID)
	ReferenceInterval() (stay.Interval, error)
}

type InventoryQueries interface {
	// HotelInventory lists the hotel's room types with their "available tonight" counter.
	// The numbers are for display and may lag behind committed bookings.
	HotelInventory(ctx context.Context, hotelID uuid.UUID) ([]*InventoryItem, error)
}

type inventoryQueriesImpl struct {
	catalog    CatalogReadStore
	projection ProjectionReader
}

func NewInventoryQueries(catalog CatalogReadStore, projection ProjectionReader) InventoryQueries {
	return &inventoryQueriesImpl{catalog: catalog, projection: projection}
}

func (q *inventoryQueriesImpl) HotelInventory(ctx context.Context, hotelID uuid.UUID) ([]*InventoryItem, error) {
	roomTypes, err := q.catalog.RoomTypesByHotel(ctx, hotelID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrHotelNotFound)
		}
		return nil, errs.Wrap(err, "list room types")
	}

	ref, err := q.projection.ReferenceInterval()
	if err != nil {
		return nil, errs.Wrap(err, "reference interval")
	}

	items := make([]*InventoryItem, 0, len(roomTypes))
	var outdated []uuid.UUID
	for _, rt := range roomTypes {
		item := &InventoryItem{RoomType: toRoomTypeView(rt)}

		snap, err := q.projection.Snapshot(ctx, rt.ID())
		if err == nil && snap.ReferenceStart.Equal(ref.Start()) {
			item.FreeUnits = snap.FreeUnits
			item.RefreshedAt = snap.RefreshedAt
			items = append(items, item)
			continue
		}

		// no usable snapshot for tonight: serve a live value
		live, computeErr := q.projection.Compute(ctx, rt)
		if computeErr != nil {
			return nil, errs.Wrap(computeErr, "compute inventory")
		}
		item.FreeUnits = live.FreeUnits
		item.RefreshedAt = live.RefreshedAt
		item.Stale = true
		if err == nil || errs.Is(err, projection.ErrSnapshotMissing) {
			outdated = append(outdated, rt.ID())
		}
		items = append(items, item)
	}

	if len(outdated) > 0 {
		q.projection.Enqueue(outdated...)
	}
	return items, nil
}

func toRoomTypeView(rt *roomtype.RoomType) RoomTypeView {
	return RoomTypeView{
		ID:               rt.ID(),
		HotelID:          rt.HotelID(),
		Name:             rt.Name(),
		TotalUnits:       rt.TotalUnits(),
		NightlyRateCents: rt.NightlyRateCents(),
		CapacityPerUnit:  rt.CapacityPerUnit(),
	}
}
