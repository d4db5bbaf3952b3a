//go:build unit

package projection_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"hotel-booking/internal/domain/availability"
	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/roomtype"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/infra/memory"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/projection"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	mu    sync.Mutex
	snaps map[uuid.UUID]projection.Snapshot
	puts  chan uuid.UUID
}

func newMapStore() *mapStore {
	return &mapStore{snaps: make(map[uuid.UUID]projection.Snapshot), puts: make(chan uuid.UUID, 16)}
}

func (m *mapStore) Put(_ context.Context, snap projection.Snapshot) error {
	m.mu.Lock()
	m.snaps[snap.RoomTypeID] = snap
	m.mu.Unlock()
	m.puts <- snap.RoomTypeID
	return nil
}

func (m *mapStore) Get(_ context.Context, id uuid.UUID) (*projection.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snaps[id]
	if !ok {
		return nil, projection.ErrSnapshotMissing
	}
	return &snap, nil
}

func setup(t *testing.T) (*projection.Refresher, *memory.Store, *mapStore, *roomtype.RoomType) {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2030, 3, 1, 20, 30, 0, 0, time.UTC))
	store := memory.NewStore(time.Second, clk)
	rt, err := roomtype.New(uuid.New(), uuid.New(), "Suite", 3, 30000, 4)
	require.NoError(t, err)
	store.AddRoomType(rt)

	snaps := newMapStore()
	r, err := projection.NewRefresher(store, snaps, availability.NewCalculator(0), clk,
		config.NewTestConfig().Booking, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return r, store, snaps, rt
}

func hold(t *testing.T, store *memory.Store, roomTypeID uuid.UUID, qty int, inDate, outDate string) {
	t.Helper()
	i, err := stay.ParseInterval(inDate, "14:00", outDate, "11:00")
	require.NoError(t, err)
	item, err := reservation.NewLineItem(roomTypeID, qty, 0)
	require.NoError(t, err)
	res, err := reservation.NewReservation(uuid.New(), i, []reservation.LineItem{item}, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.WithinRoomTypes(context.Background(), res.RoomTypeIDs(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Reservations().Create(ctx, res)
	}))
}

func TestRefresher(t *testing.T) {
	ctx := context.Background()

	t.Run("success: reference interval is tonight", func(t *testing.T) {
		r, _, _, _ := setup(t)
		ref, err := r.ReferenceInterval()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2030, 3, 1, 14, 0, 0, 0, time.UTC), ref.Start())
		assert.Equal(t, time.Date(2030, 3, 2, 11, 0, 0, 0, time.UTC), ref.End())
	})

	t.Run("success: refresh counts only stays covering tonight", func(t *testing.T) {
		r, store, snaps, rt := setup(t)
		hold(t, store, rt.ID(), 1, "2030-02-28", "2030-03-02")
		hold(t, store, rt.ID(), 1, "2030-03-02", "2030-03-04")

		snap, err := r.Refresh(ctx, rt.ID())
		require.NoError(t, err)
		assert.Equal(t, 2, snap.FreeUnits)
		assert.Equal(t, 3, snap.TotalUnits)

		stored, err := snaps.Get(ctx, rt.ID())
		require.NoError(t, err)
		assert.Equal(t, 2, stored.FreeUnits)
	})

	t.Run("success: workers process enqueued refreshes", func(t *testing.T) {
		r, _, snaps, rt := setup(t)
		r.Start()
		defer func() { require.NoError(t, r.Stop(ctx)) }()

		r.Enqueue(rt.ID())
		select {
		case id := <-snaps.puts:
			assert.Equal(t, rt.ID(), id)
		case <-time.After(time.Second):
			t.Fatal("refresh not processed")
		}
	})

	t.Run("success: warm fills every room type", func(t *testing.T) {
		r, store, snaps, _ := setup(t)
		other, err := roomtype.New(uuid.New(), uuid.New(), "Single", 1, 5000, 1)
		require.NoError(t, err)
		store.AddRoomType(other)

		require.NoError(t, r.Warm(ctx))
		_, err = snaps.Get(ctx, other.ID())
		require.NoError(t, err)
	})

	t.Run("success: enqueue after stop is ignored", func(t *testing.T) {
		r, _, snaps, rt := setup(t)
		r.Start()
		require.NoError(t, r.Stop(ctx))

		r.Enqueue(rt.ID())
		_, err := snaps.Get(ctx, rt.ID())
		assert.True(t, errs.Is(err, projection.ErrSnapshotMissing))
	})
}
