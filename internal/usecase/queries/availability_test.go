//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"hotel-booking/internal/domain/availability"
	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/roomtype"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/infra/memory"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/queries"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2030, 2, 1, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T, units int) (*memory.Store, *roomtype.RoomType) {
	t.Helper()
	store := memory.NewStore(100*time.Millisecond, clock.NewMockClock(now))
	rt, err := roomtype.New(uuid.New(), uuid.New(), "Double", units, 12000, 2)
	require.NoError(t, err)
	store.AddRoomType(rt)
	return store, rt
}

func interval(t *testing.T, inDate, outDate string) stay.Interval {
	t.Helper()
	i, err := stay.ParseInterval(inDate, "14:00", outDate, "11:00")
	require.NoError(t, err)
	return i
}

func book(t *testing.T, store *memory.Store, guestID, roomTypeID uuid.UUID, qty int, inDate, outDate string, created time.Time) *reservation.Reservation {
	t.Helper()
	item, err := reservation.NewLineItem(roomTypeID, qty, 12000)
	require.NoError(t, err)
	res, err := reservation.NewReservation(guestID, interval(t, inDate, outDate), []reservation.LineItem{item}, created)
	require.NoError(t, err)
	require.NoError(t, store.WithinRoomTypes(context.Background(), res.RoomTypeIDs(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Reservations().Create(ctx, res)
	}))
	return res
}

func TestAvailabilityQueries_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("success: free units subtract overlapping stays only", func(t *testing.T) {
		store, rt := newStore(t, 3)
		overlapping := book(t, store, uuid.New(), rt.ID(), 2, "2030-03-02", "2030-03-04", now)
		book(t, store, uuid.New(), rt.ID(), 1, "2030-03-03", "2030-03-05", now)
		q := queries.NewAvailabilityQueries(store, availability.NewCalculator(0))

		view, err := q.Check(ctx, rt.ID(), interval(t, "2030-03-01", "2030-03-03"), 2)
		require.NoError(t, err)
		assert.Equal(t, 3, view.TotalUnits)
		assert.Equal(t, 1, view.FreeUnits)
		assert.Equal(t, 2, view.RequestedUnits)
		assert.Equal(t, 1, view.Shortfall)
		assert.False(t, view.Satisfiable)
		require.Len(t, view.Conflicts, 1)
		assert.Equal(t, overlapping.ID(), view.Conflicts[0].ReservationID)
		assert.Equal(t, 2, view.Conflicts[0].Quantity)
	})

	t.Run("success: a stay ending at check-in does not conflict", func(t *testing.T) {
		store, rt := newStore(t, 1)
		book(t, store, uuid.New(), rt.ID(), 1, "2030-03-01", "2030-03-03", now)
		q := queries.NewAvailabilityQueries(store, availability.NewCalculator(0))

		i, err := stay.ParseInterval("2030-03-03", "11:00", "2030-03-04", "11:00")
		require.NoError(t, err)
		view, err := q.Check(ctx, rt.ID(), i, 1)
		require.NoError(t, err)
		assert.True(t, view.Satisfiable)
		assert.Empty(t, view.Conflicts)
	})

	t.Run("success: turnover buffer widens the window", func(t *testing.T) {
		store, rt := newStore(t, 1)
		book(t, store, uuid.New(), rt.ID(), 1, "2030-03-01", "2030-03-03", now)
		q := queries.NewAvailabilityQueries(store, availability.NewCalculator(4*time.Hour))

		i, err := stay.ParseInterval("2030-03-03", "13:00", "2030-03-04", "11:00")
		require.NoError(t, err)
		view, err := q.Check(ctx, rt.ID(), i, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, view.FreeUnits)
		assert.Len(t, view.Conflicts, 1)
	})

	t.Run("success: cancelled stays are ignored", func(t *testing.T) {
		store, rt := newStore(t, 1)
		res := book(t, store, uuid.New(), rt.ID(), 1, "2030-03-01", "2030-03-03", now)
		require.True(t, res.Cancel(now))
		require.NoError(t, store.WithinRoomTypes(ctx, res.RoomTypeIDs(), func(ctx context.Context, tx shared.Tx) error {
			return tx.Reservations().UpdateStatus(ctx, res)
		}))
		q := queries.NewAvailabilityQueries(store, availability.NewCalculator(0))

		view, err := q.Check(ctx, rt.ID(), interval(t, "2030-03-01", "2030-03-03"), 1)
		require.NoError(t, err)
		assert.Equal(t, 1, view.FreeUnits)
	})

	t.Run("error: invalid input", func(t *testing.T) {
		store, rt := newStore(t, 1)
		q := queries.NewAvailabilityQueries(store, availability.NewCalculator(0))

		_, err := q.Check(ctx, rt.ID(), interval(t, "2030-03-01", "2030-03-03"), 0)
		assert.True(t, errs.Is(err, queries.ErrInvalidQuantity))

		_, err = q.Check(ctx, rt.ID(), stay.Interval{}, 1)
		assert.True(t, errs.Is(err, queries.ErrInvalidInterval))

		_, err = q.Check(ctx, uuid.New(), interval(t, "2030-03-01", "2030-03-03"), 1)
		assert.True(t, errs.Is(err, queries.ErrRoomTypeNotFound))
	})
}
