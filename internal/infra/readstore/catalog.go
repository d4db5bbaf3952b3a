package readstore

import (
	"context"

	"hotel-booking/internal/domain/roomtype"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/infra/repository/converter"
	sqlc "hotel-booking/internal/infra/sqlc/generated"
	"hotel-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type CatalogReadQueries interface {
	GetRoomType(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.GetRoomTypeRow, error)
	HotelExists(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (bool, error)
	ListRoomTypesByHotel(ctx context.Context, db sqlc.DBTX, hotelID uuid.UUID) ([]sqlc.ListRoomTypesByHotelRow, error)
	ListRoomTypeIDs(ctx context.Context, db sqlc.DBTX) ([]uuid.UUID, error)
}

type CatalogReadStore struct {
	queries CatalogReadQueries
	db      sqlc.DBTX
}

func NewCatalogReadStore(queries CatalogReadQueries, db sqlc.DBTX) *CatalogReadStore {
	return &CatalogReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *CatalogReadStore) RoomTypeByID(ctx context.Context, id uuid.UUID) (*roomtype.RoomType, error) {
	row, err := r.queries.GetRoomType(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("room type not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get room type", err)
	}
	rt, err := converter.RoomTypeFromInfra(row.ID, row.HotelID, row.Name, row.TotalUnits, row.NightlyRateCents, row.CapacityPerUnit)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid room type row", err)
	}
	return rt, nil
}

// RoomTypesByHotel returns the hotel's room types ordered by name. An unknown hotel is
// reported as KindNotFound so that it differs from a hotel without room types.
func (r *CatalogReadStore) RoomTypesByHotel(ctx context.Context, hotelID uuid.UUID) ([]*roomtype.RoomType, error) {
	exists, err := r.queries.HotelExists(ctx, r.db, hotelID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to check hotel", err)
	}
	if !exists {
		return nil, infra.WrapRepoErr("hotel not found", nil, infra.KindNotFound)
	}

	rows, err := r.queries.ListRoomTypesByHotel(ctx, r.db, hotelID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list room types", err)
	}

	out := make([]*roomtype.RoomType, 0, len(rows))
	for _, row := range rows {
		rt, err := converter.RoomTypeFromInfra(row.ID, row.HotelID, row.Name, row.TotalUnits, row.NightlyRateCents, row.CapacityPerUnit)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid room type row", err)
		}
		out = append(out, rt)
	}
	return out, nil
}

func (r *CatalogReadStore) RoomTypeIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := r.queries.ListRoomTypeIDs(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list room type ids", err)
	}
	return ids, nil
}
