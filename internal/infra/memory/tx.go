package memory

import (
	"context"
	"time"

	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/roomtype"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// memTx stages writes until commit. Reads through the tx see the staged writes.
type memTx struct {
	s           *Store
	created     []*reservation.Reservation
	updated     map[uuid.UUID]*reservation.Reservation
	deleted     map[uuid.UUID]struct{}
	idempotency []shared.IdempotencyRecord
}

func newTx(s *Store) *memTx {
	return &memTx{
		s:       s,
		updated: make(map[uuid.UUID]*reservation.Reservation),
		deleted: make(map[uuid.UUID]struct{}),
	}
}

func (t *memTx) Reservations() shared.ReservationRepository { return (*txReservations)(t) }
func (t *memTx) Idempotency() shared.IdempotencyRepository  { return (*txIdempotency)(t) }
func (t *memTx) Reads() shared.CommandReads                 { return (*txReads)(t) }

func (t *memTx) lookup(id uuid.UUID) (*reservation.Reservation, bool) {
	if _, gone := t.deleted[id]; gone {
		return nil, false
	}
	if res, ok := t.updated[id]; ok {
		return res, true
	}
	for _, res := range t.created {
		if res.ID() == id {
			return res, true
		}
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	res, ok := t.s.reservations[id]
	return res, ok
}

type txReservations memTx

func (r *txReservations) Create(_ context.Context, res *reservation.Reservation) error {
	r.created = append(r.created, cloneReservation(res))
	return nil
}

func (r *txReservations) UpdateStatus(_ context.Context, res *reservation.Reservation) error {
	if _, ok := (*memTx)(r).lookup(res.ID()); !ok {
		return infra.WrapRepoErr("update reservation", nil, infra.KindNotFound)
	}
	r.updated[res.ID()] = cloneReservation(res)
	return nil
}

func (r *txReservations) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := (*memTx)(r).lookup(id); !ok {
		return infra.WrapRepoErr("delete reservation", nil, infra.KindNotFound)
	}
	r.deleted[id] = struct{}{}
	delete(r.updated, id)
	return nil
}

type txIdempotency memTx

func (r *txIdempotency) Save(_ context.Context, rec shared.IdempotencyRecord) error {
	r.idempotency = append(r.idempotency, rec)
	return nil
}

type txReads memTx

func (r *txReads) RoomTypeByID(ctx context.Context, id uuid.UUID) (*roomtype.RoomType, error) {
	return r.s.RoomTypeByID(ctx, id)
}

func (r *txReads) ReservationByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := (*memTx)(r).lookup(id)
	if !ok {
		return nil, infra.WrapRepoErr("reservation by id", nil, infra.KindNotFound)
	}
	return cloneReservation(res), nil
}

func (r *txReads) ActiveReservations(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]*reservation.Reservation, error) {
	committed, err := r.s.ActiveReservations(ctx, roomTypeID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]*reservation.Reservation, 0, len(committed)+len(r.created))
	for _, res := range committed {
		if _, gone := r.deleted[res.ID()]; gone {
			continue
		}
		if staged, ok := r.updated[res.ID()]; ok {
			res = cloneReservation(staged)
		}
		if res.IsActive() {
			out = append(out, res)
		}
	}
	for _, res := range r.created {
		if matches(res, roomTypeID, from, to) {
			out = append(out, cloneReservation(res))
		}
	}
	sortReservations(out)
	return out, nil
}

func (r *txReads) IdempotencyByKey(ctx context.Context, key, guestID uuid.UUID) (*shared.IdempotencyRecord, error) {
	for i := len(r.idempotency) - 1; i >= 0; i-- {
		rec := r.idempotency[i]
		if rec.Key == key && rec.GuestID == guestID {
			return &rec, nil
		}
	}
	return r.s.IdempotencyByKey(ctx, key, guestID)
}
