package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/roomtype"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/usecase/queries"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// committedReads serves shared.CommandReads outside a transaction.
type committedReads struct {
	s *Store
}

func (r *committedReads) RoomTypeByID(ctx context.Context, id uuid.UUID) (*roomtype.RoomType, error) {
	return r.s.RoomTypeByID(ctx, id)
}

func (r *committedReads) ReservationByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.s.ReservationByID(ctx, id)
}

func (r *committedReads) ActiveReservations(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]*reservation.Reservation, error) {
	return r.s.ActiveReservations(ctx, roomTypeID, from, to)
}

func (r *committedReads) IdempotencyByKey(ctx context.Context, key, guestID uuid.UUID) (*shared.IdempotencyRecord, error) {
	return r.s.IdempotencyByKey(ctx, key, guestID)
}

func (s *Store) RoomTypeByID(_ context.Context, id uuid.UUID) (*roomtype.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rt, ok := s.roomTypes[id]
	if !ok {
		return nil, infra.WrapRepoErr("room type by id", nil, infra.KindNotFound)
	}
	return rt, nil
}

func (s *Store) RoomTypeIDs(_ context.Context) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(s.roomTypes))
	for id := range s.roomTypes {
		ids = append(ids, id)
	}
	return reservation.SortedUnique(ids), nil
}

func (s *Store) RoomTypesByHotel(_ context.Context, hotelID uuid.UUID) ([]*roomtype.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.hotels[hotelID]; !ok {
		return nil, infra.WrapRepoErr("room types by hotel", nil, infra.KindNotFound)
	}
	var out []*roomtype.RoomType
	for _, rt := range s.roomTypes {
		if rt.HotelID() == hotelID {
			out = append(out, rt)
		}
	}
	slices.SortFunc(out, func(a, b *roomtype.RoomType) int {
		if c := strings.Compare(a.Name(), b.Name()); c != 0 {
			return c
		}
		return compareIDs(a.ID(), b.ID())
	})
	return out, nil
}

func (s *Store) ReservationByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation by id", nil, infra.KindNotFound)
	}
	return cloneReservation(res), nil
}

// ActiveReservations returns active reservations holding roomTypeID whose stay intersects [from, to).
func (s *Store) ActiveReservations(_ context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]*reservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*reservation.Reservation
	for _, res := range s.reservations {
		if res.IsActive() && matches(res, roomTypeID, from, to) {
			out = append(out, cloneReservation(res))
		}
	}
	sortReservations(out)
	return out, nil
}

func (s *Store) IdempotencyByKey(_ context.Context, key, guestID uuid.UUID) (*shared.IdempotencyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.idempotency[idempotencyKey{key: key, guestID: guestID}]
	if !ok {
		return nil, infra.WrapRepoErr("idempotency by key", nil, infra.KindNotFound)
	}
	return &rec, nil
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("find reservation", nil, infra.KindNotFound)
	}

	items := make([]queries.LineItemView, 0, len(res.LineItems()))
	for _, it := range res.LineItems() {
		view := queries.LineItemView{
			RoomTypeID:     it.RoomTypeID(),
			Quantity:       it.Quantity(),
			UnitPriceCents: it.UnitPriceCents(),
		}
		if rt, ok := s.roomTypes[it.RoomTypeID()]; ok {
			view.RoomTypeName = rt.Name()
		}
		items = append(items, view)
	}
	return &queries.ReservationView{
		ID:        res.ID(),
		GuestID:   res.GuestID(),
		Status:    res.Status().String(),
		CheckIn:   res.Stay().Start(),
		CheckOut:  res.Stay().End(),
		Items:     items,
		CreatedAt: res.CreatedAt(),
		UpdatedAt: res.UpdatedAt(),
	}, nil
}

func (s *Store) FindByGuestFirstPage(_ context.Context, guestID uuid.UUID, limit int32) ([]*queries.ReservationListItem, error) {
	return s.listByGuest(guestID, nil, uuid.Nil, limit), nil
}

func (s *Store) FindByGuestKeyset(_ context.Context, guestID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.ReservationListItem, error) {
	return s.listByGuest(guestID, &lastCreatedAt, lastID, limit), nil
}

// listByGuest orders by (created_at, id) descending and starts strictly after the cursor.
func (s *Store) listByGuest(guestID uuid.UUID, lastCreatedAt *time.Time, lastID uuid.UUID, limit int32) []*queries.ReservationListItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []*reservation.Reservation
	for _, res := range s.reservations {
		if res.GuestID() == guestID {
			rows = append(rows, res)
		}
	}
	slices.SortFunc(rows, func(a, b *reservation.Reservation) int {
		if c := b.CreatedAt().Compare(a.CreatedAt()); c != 0 {
			return c
		}
		return compareIDs(b.ID(), a.ID())
	})

	out := make([]*queries.ReservationListItem, 0, limit)
	for _, res := range rows {
		if lastCreatedAt != nil && !before(res, *lastCreatedAt, lastID) {
			continue
		}
		if len(out) == int(limit) {
			break
		}
		units := 0
		for _, it := range res.LineItems() {
			units += it.Quantity()
		}
		out = append(out, &queries.ReservationListItem{
			ID:         res.ID(),
			Status:     res.Status().String(),
			CheckIn:    res.Stay().Start(),
			CheckOut:   res.Stay().End(),
			TotalUnits: units,
			CreatedAt:  res.CreatedAt(),
		})
	}
	return out
}

// before reports whether res sorts after the cursor in descending (created_at, id) order.
func before(res *reservation.Reservation, createdAt time.Time, id uuid.UUID) bool {
	if c := res.CreatedAt().Compare(createdAt); c != 0 {
		return c < 0
	}
	return compareIDs(res.ID(), id) < 0
}

func matches(res *reservation.Reservation, roomTypeID uuid.UUID, from, to time.Time) bool {
	if res.QuantityFor(roomTypeID) == 0 {
		return false
	}
	return res.Stay().Start().Before(to) && res.Stay().End().After(from)
}
