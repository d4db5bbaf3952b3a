//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/stay"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStay(t *testing.T) stay.Interval {
	t.Helper()
	i, err := stay.ParseInterval("2030-03-01", "14:00", "2030-03-03", "11:00")
	require.NoError(t, err)
	return i
}

func TestNewLineItem(t *testing.T) {
	roomTypeID := uuid.New()

	t.Run("success: positive quantity", func(t *testing.T) {
		item, err := reservation.NewLineItem(roomTypeID, 2, 12000)
		require.NoError(t, err)
		assert.Equal(t, 2, item.Quantity())
		assert.Equal(t, int64(12000), item.UnitPriceCents())
	})

	for _, qty := range []int{0, -1} {
		t.Run("error: non-positive quantity", func(t *testing.T) {
			_, err := reservation.NewLineItem(roomTypeID, qty, 12000)
			assert.ErrorIs(t, err, reservation.ErrInvalidQuantity)
		})
	}

	t.Run("error: negative price snapshot", func(t *testing.T) {
		_, err := reservation.NewLineItem(roomTypeID, 1, -1)
		assert.ErrorIs(t, err, reservation.ErrNegativePrice)
	})
}

func TestNewReservation(t *testing.T) {
	now := time.Date(2030, 2, 1, 9, 0, 0, 0, time.UTC)
	deluxe, suite := uuid.New(), uuid.New()

	t.Run("success: active reservation with summed quantities", func(t *testing.T) {
		a, _ := reservation.NewLineItem(deluxe, 1, 100)
		b, _ := reservation.NewLineItem(suite, 2, 300)
		c, _ := reservation.NewLineItem(deluxe, 3, 100)

		res, err := reservation.NewReservation(uuid.New(), newStay(t), []reservation.LineItem{a, b, c}, now)
		require.NoError(t, err)

		assert.True(t, res.IsActive())
		assert.Equal(t, 4, res.QuantityFor(deluxe))
		assert.Equal(t, 2, res.QuantityFor(suite))
		assert.Equal(t, 0, res.QuantityFor(uuid.New()))
		assert.Len(t, res.RoomTypeIDs(), 2)
		assert.Equal(t, now, res.CreatedAt())
	})

	t.Run("success: timestamps are kept at microsecond precision", func(t *testing.T) {
		item, _ := reservation.NewLineItem(deluxe, 1, 100)
		res, err := reservation.NewReservation(uuid.New(), newStay(t), []reservation.LineItem{item}, now.Add(1500*time.Nanosecond))
		require.NoError(t, err)
		assert.Equal(t, now.Add(time.Microsecond), res.CreatedAt())
		assert.Equal(t, res.CreatedAt(), res.UpdatedAt())
	})

	t.Run("error: empty cart", func(t *testing.T) {
		_, err := reservation.NewReservation(uuid.New(), newStay(t), nil, now)
		assert.ErrorIs(t, err, reservation.ErrEmptyCart)
	})

	t.Run("error: missing guest", func(t *testing.T) {
		item, _ := reservation.NewLineItem(deluxe, 1, 100)
		_, err := reservation.NewReservation(uuid.Nil, newStay(t), []reservation.LineItem{item}, now)
		assert.ErrorIs(t, err, reservation.ErrMissingGuest)
	})

	t.Run("error: zero-value line item", func(t *testing.T) {
		_, err := reservation.NewReservation(uuid.New(), newStay(t), []reservation.LineItem{{}}, now)
		assert.ErrorIs(t, err, reservation.ErrInvalidQuantity)
	})
}

func TestCancel(t *testing.T) {
	created := time.Date(2030, 2, 1, 9, 0, 0, 0, time.UTC)
	item, _ := reservation.NewLineItem(uuid.New(), 1, 100)
	res, err := reservation.NewReservation(uuid.New(), newStay(t), []reservation.LineItem{item}, created)
	require.NoError(t, err)

	first := created.Add(time.Hour)
	assert.True(t, res.Cancel(first))
	assert.Equal(t, reservation.StatusCancelled, res.Status())
	assert.Equal(t, first, res.UpdatedAt())

	assert.False(t, res.Cancel(first.Add(time.Hour)), "second cancel is a no-op")
	assert.Equal(t, reservation.StatusCancelled, res.Status())
	assert.Equal(t, first, res.UpdatedAt())
}

func TestSortedUnique(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	c := uuid.MustParse("10000000-0000-0000-0000-000000000000")

	assert.Equal(t, []uuid.UUID{a, b, c}, reservation.SortedUnique([]uuid.UUID{c, a, b, a, c}))
}
