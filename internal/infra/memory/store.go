// Package memory is an in-process implementation of the booking store. It gives the
// same admission guarantees as the PostgreSQL store within a single process.
package memory

import (
	"bytes"
	"context"
	"slices"
	"sync"
	"time"

	"hotel-booking/internal/domain/availability"
	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/roomtype"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/pkg/keylock"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var errCapacityExceeded = errs.New("room type capacity exceeded")

type idempotencyKey struct {
	key     uuid.UUID
	guestID uuid.UUID
}

type Store struct {
	mu           sync.RWMutex
	hotels       map[uuid.UUID]string
	roomTypes    map[uuid.UUID]*roomtype.RoomType
	reservations map[uuid.UUID]*reservation.Reservation
	idempotency  map[idempotencyKey]shared.IdempotencyRecord

	locks       *keylock.Locker
	lockTimeout time.Duration
	clock       clock.Clock
	// guard re-checks capacity at commit with a zero buffer, like the database trigger.
	guard availability.Calculator
}

func NewStore(lockTimeout time.Duration, clk clock.Clock) *Store {
	return &Store{
		hotels:       make(map[uuid.UUID]string),
		roomTypes:    make(map[uuid.UUID]*roomtype.RoomType),
		reservations: make(map[uuid.UUID]*reservation.Reservation),
		idempotency:  make(map[idempotencyKey]shared.IdempotencyRecord),
		locks:        keylock.New(),
		lockTimeout:  lockTimeout,
		clock:        clk,
		guard:        availability.NewCalculator(0),
	}
}

func (s *Store) AddHotel(id uuid.UUID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hotels[id] = name
}

// AddRoomType registers rt in the catalog, creating its hotel entry if needed.
func (s *Store) AddRoomType(rt *roomtype.RoomType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hotels[rt.HotelID()]; !ok {
		s.hotels[rt.HotelID()] = ""
	}
	s.roomTypes[rt.ID()] = rt
}

func (s *Store) CommandReads() shared.CommandReads {
	return &committedReads{s: s}
}

func (s *Store) WithinRoomTypes(ctx context.Context, roomTypeIDs []uuid.UUID, fn func(ctx context.Context, tx shared.Tx) error) error {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	release, err := s.locks.Lock(lockCtx, roomTypeIDs...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errs.Mark(err, shared.ErrLockTimeout)
	}
	defer release()

	tx := newTx(s)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.commit(tx)
}

// DeleteExpiredIdempotencyKeys removes idempotency records past their expiry.
func (s *Store) DeleteExpiredIdempotencyKeys(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	var n int64
	for k, rec := range s.idempotency {
		if !rec.ExpiresAt.After(now) {
			delete(s.idempotency, k)
			n++
		}
	}
	return n, nil
}

// commit applies the staged writes atomically. Nothing is applied when any check fails.
func (s *Store) commit(tx *memTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, res := range tx.created {
		if _, exists := s.reservations[res.ID()]; exists {
			return infra.WrapRepoErr("create reservation", errs.Newf("reservation %s exists", res.ID()), infra.KindDuplicateKey)
		}
		if err := s.checkCapacityLocked(res, tx.created); err != nil {
			return err
		}
	}
	now := s.clock.Now()
	for _, rec := range tx.idempotency {
		k := idempotencyKey{key: rec.Key, guestID: rec.GuestID}
		if prev, ok := s.idempotency[k]; ok && prev.ExpiresAt.After(now) {
			return infra.WrapRepoErr("save idempotency key", errs.New("key in use"), infra.KindDuplicateKey)
		}
	}
	for id := range tx.updated {
		if _, ok := s.reservations[id]; !ok {
			return infra.WrapRepoErr("update reservation", nil, infra.KindNotFound)
		}
	}

	for _, res := range tx.created {
		s.reservations[res.ID()] = cloneReservation(res)
	}
	for id, res := range tx.updated {
		s.reservations[id] = cloneReservation(res)
	}
	for id := range tx.deleted {
		delete(s.reservations, id)
	}
	for _, rec := range tx.idempotency {
		s.idempotency[idempotencyKey{key: rec.Key, guestID: rec.GuestID}] = rec
	}
	return nil
}

// checkCapacityLocked refuses res when, together with the committed reservations and
// the rest of the batch, it would hold more units than a room type has.
func (s *Store) checkCapacityLocked(res *reservation.Reservation, batch []*reservation.Reservation) error {
	for _, item := range res.LineItems() {
		rt, ok := s.roomTypes[item.RoomTypeID()]
		if !ok {
			return infra.WrapRepoErr("create reservation", errs.Newf("room type %s", item.RoomTypeID()), infra.KindForeignKeyViolated)
		}
		existing := make([]*reservation.Reservation, 0, len(s.reservations)+len(batch))
		for _, other := range s.reservations {
			existing = append(existing, other)
		}
		for _, other := range batch {
			if other.ID() != res.ID() {
				existing = append(existing, other)
			}
		}
		result, err := s.guard.Compute(rt.ID(), rt.TotalUnits(), res.Stay(), existing)
		if err != nil {
			return infra.WrapRepoErr("create reservation", err, infra.KindConflict)
		}
		if !result.CanServe(item.Quantity()) {
			return infra.WrapRepoErr("create reservation", errCapacityExceeded, infra.KindConflict)
		}
	}
	return nil
}

func cloneReservation(r *reservation.Reservation) *reservation.Reservation {
	return reservation.ReconstructReservation(
		r.ID(), r.GuestID(), r.Stay(), r.LineItems(), r.Status(), r.CreatedAt(), r.UpdatedAt(),
	)
}

func sortReservations(rs []*reservation.Reservation) {
	slices.SortFunc(rs, func(a, b *reservation.Reservation) int {
		if c := a.Stay().Start().Compare(b.Stay().Start()); c != 0 {
			return c
		}
		return compareIDs(a.ID(), b.ID())
	})
}

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
