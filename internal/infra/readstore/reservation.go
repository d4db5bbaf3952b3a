package readstore

import (
	"context"
	"time"

	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/infra/repository/converter"
	sqlc "hotel-booking/internal/infra/sqlc/generated"
	"hotel-booking/internal/pkg/pgconv"
	"hotel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationReadQueries interface {
	GetReservation(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	ListActiveReservationsForRoomType(ctx context.Context, db sqlc.DBTX, arg sqlc.ListActiveReservationsForRoomTypeParams) ([]sqlc.Reservations, error)
	ListLineItemsByReservationIDs(ctx context.Context, db sqlc.DBTX, reservationIds []uuid.UUID) ([]sqlc.ListLineItemsByReservationIDsRow, error)
	ListReservationsByGuestFirstPage(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsByGuestFirstPageParams) ([]sqlc.ListReservationsByGuestFirstPageRow, error)
	ListReservationsByGuestKeyset(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsByGuestKeysetParams) ([]sqlc.ListReservationsByGuestKeysetRow, error)
}

type ReservationReadStore struct {
	queries ReservationReadQueries
	db      sqlc.DBTX
}

func NewReservationReadStore(queries ReservationReadQueries, db sqlc.DBTX) *ReservationReadStore {
	return &ReservationReadStore{
		queries: queries,
		db:      db,
	}
}

// ReservationByID loads the aggregate with its line items.
func (r *ReservationReadStore) ReservationByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservation(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get reservation", err)
	}

	items, err := r.queries.ListLineItemsByReservationIDs(ctx, r.db, []uuid.UUID{id})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list line items", err)
	}

	res, err := converter.ReservationFromInfra(row, items)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid reservation row", err)
	}
	return res, nil
}

// ActiveReservations returns active reservations holding roomTypeID whose stay
// intersects [from, to), each with all of its line items.
func (r *ReservationReadStore) ActiveReservations(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]*reservation.Reservation, error) {
	rows, err := r.queries.ListActiveReservationsForRoomType(ctx, r.db, sqlc.ListActiveReservationsForRoomTypeParams{
		RoomTypeID:  roomTypeID,
		WindowEnd:   pgconv.TimeToPgtype(to),
		WindowStart: pgconv.TimeToPgtype(from),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active reservations", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	itemRows, err := r.queries.ListLineItemsByReservationIDs(ctx, r.db, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list line items", err)
	}
	byReservation := converter.GroupLineItems(itemRows)

	out := make([]*reservation.Reservation, 0, len(rows))
	for _, row := range rows {
		res, err := converter.ReservationFromInfra(row, byReservation[row.ID])
		if err != nil {
			return nil, infra.WrapRepoErr("invalid reservation row", err)
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservation(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	items, err := r.queries.ListLineItemsByReservationIDs(ctx, r.db, []uuid.UUID{id})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list line items", err)
	}

	return toReservationView(row, items), nil
}

func toReservationView(row sqlc.Reservations, items []sqlc.ListLineItemsByReservationIDsRow) *queries.ReservationView {
	views := make([]queries.LineItemView, len(items))
	for i, it := range items {
		views[i] = queries.LineItemView{
			RoomTypeID:     it.RoomTypeID,
			RoomTypeName:   it.RoomTypeName,
			Quantity:       int(it.Quantity),
			UnitPriceCents: it.UnitPriceCents,
		}
	}
	return &queries.ReservationView{
		ID:        row.ID,
		GuestID:   row.GuestID,
		Status:    row.Status,
		CheckIn:   pgconv.TimeFromPgtype(row.CheckInAt),
		CheckOut:  pgconv.TimeFromPgtype(row.CheckOutAt),
		Items:     views,
		CreatedAt: pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt: pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

func (r *ReservationReadStore) FindByGuestFirstPage(ctx context.Context, guestID uuid.UUID, limit int32) ([]*queries.ReservationListItem, error) {
	rows, err := r.queries.ListReservationsByGuestFirstPage(ctx, r.db, sqlc.ListReservationsByGuestFirstPageParams{
		GuestID: guestID,
		Limit:   limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations first page", err)
	}

	result := make([]*queries.ReservationListItem, len(rows))
	for i, row := range rows {
		result[i] = toReservationListItem(row.ID, row.Status, row.CheckInAt, row.CheckOutAt, row.CreatedAt, row.TotalUnits)
	}
	return result, nil
}

func (r *ReservationReadStore) FindByGuestKeyset(ctx context.Context, guestID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.ReservationListItem, error) {
	rows, err := r.queries.ListReservationsByGuestKeyset(ctx, r.db, sqlc.ListReservationsByGuestKeysetParams{
		GuestID:       guestID,
		LastCreatedAt: pgconv.TimeToPgtype(lastCreatedAt),
		LastID:        lastID,
		RowLimit:      limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations with keyset", err)
	}

	result := make([]*queries.ReservationListItem, len(rows))
	for i, row := range rows {
		result[i] = toReservationListItem(row.ID, row.Status, row.CheckInAt, row.CheckOutAt, row.CreatedAt, row.TotalUnits)
	}
	return result, nil
}

func toReservationListItem(id uuid.UUID, status string, checkIn, checkOut, createdAt pgtype.Timestamptz, totalUnits int32) *queries.ReservationListItem {
	return &queries.ReservationListItem{
		ID:         id,
		Status:     status,
		CheckIn:    pgconv.TimeFromPgtype(checkIn),
		CheckOut:   pgconv.TimeFromPgtype(checkOut),
		TotalUnits: int(totalUnits),
		CreatedAt:  pgconv.TimeFromPgtype(createdAt),
	}
}
