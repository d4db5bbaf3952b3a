package readstore

import (
	sqlc "hotel-booking/internal/infra/sqlc/generated"
)

// BookingReadStore serves the query side and the inventory projection from the pool.
type BookingReadStore struct {
	*CatalogReadStore
	*ReservationReadStore
}

func NewBookingReadStore(queries *sqlc.Queries, db sqlc.DBTX) *BookingReadStore {
	return &BookingReadStore{
		CatalogReadStore:     NewCatalogReadStore(queries, db),
		ReservationReadStore: NewReservationReadStore(queries, db),
	}
}
