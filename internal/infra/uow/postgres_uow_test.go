//go:build integration

package uow_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/infra/readstore"
	sqlc "hotel-booking/internal/infra/sqlc/generated"
	"hotel-booking/internal/infra/uow"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/shared"
	"hotel-booking/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var now = time.Date(2030, 2, 1, 9, 0, 0, 0, time.UTC)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()
	port := nat.Port("5432/tcp")

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{string(port)},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "test_db",
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort(port),
			).WithDeadline(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, port)
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/test_db?sslmode=disable", host, mapped.Port())
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "001_initial_schema.sql"))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)
	return pool
}

func seedRoomType(t *testing.T, pool *pgxpool.Pool, units int) uuid.UUID {
	t.Helper()
	hotelID := dbtest.CreateTestHotel(t, pool, "Harbor View")
	return dbtest.CreateTestRoomType(t, pool, hotelID, "Double", units, 2)
}

func newReservation(t *testing.T, roomTypeID uuid.UUID, qty int, inDate, outDate string) *reservation.Reservation {
	t.Helper()
	i, err := stay.ParseInterval(inDate, "14:00", outDate, "11:00")
	require.NoError(t, err)
	item, err := reservation.NewLineItem(roomTypeID, qty, 12000)
	require.NoError(t, err)
	res, err := reservation.NewReservation(uuid.New(), i, []reservation.LineItem{item}, now)
	require.NoError(t, err)
	return res
}

func TestPostgresUoW(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()
	pool := startPostgres(t)
	u := uow.NewPostgresUoW(pool, sqlc.New(), clock.NewMockClock(now), 300*time.Millisecond)

	t.Run("success: committed reservation is read back with its line items", func(t *testing.T) {
		roomTypeID := seedRoomType(t, pool, 2)
		res := newReservation(t, roomTypeID, 2, "2030-03-01", "2030-03-03")

		require.NoError(t, u.WithinRoomTypes(ctx, res.RoomTypeIDs(), func(ctx context.Context, tx shared.Tx) error {
			return tx.Reservations().Create(ctx, res)
		}))

		got, err := u.CommandReads().ActiveReservations(ctx, roomTypeID, res.Stay().Start(), res.Stay().End())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].QuantityFor(roomTypeID))
		assert.True(t, got[0].Stay().Start().Equal(res.Stay().Start()))
	})

	t.Run("error: capacity trigger refuses an oversell", func(t *testing.T) {
		roomTypeID := seedRoomType(t, pool, 1)
		first := newReservation(t, roomTypeID, 1, "2030-03-01", "2030-03-03")
		second := newReservation(t, roomTypeID, 1, "2030-03-02", "2030-03-04")
		adjacent := newReservation(t, roomTypeID, 1, "2030-03-03", "2030-03-05")

		create := func(res *reservation.Reservation) error {
			return u.WithinRoomTypes(ctx, res.RoomTypeIDs(), func(ctx context.Context, tx shared.Tx) error {
				return tx.Reservations().Create(ctx, res)
			})
		}
		require.NoError(t, create(first))
		assert.True(t, infra.IsKind(create(second), infra.KindConflict))
		require.NoError(t, create(adjacent))

		_, err := u.CommandReads().ReservationByID(ctx, second.ID())
		assert.True(t, infra.IsKind(err, infra.KindNotFound), "rolled back reservation must not persist")
	})

	t.Run("error: held room type lock times out", func(t *testing.T) {
		roomTypeID := seedRoomType(t, pool, 1)
		held := make(chan struct{})
		release := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			done <- u.WithinRoomTypes(ctx, []uuid.UUID{roomTypeID}, func(context.Context, shared.Tx) error {
				close(held)
				<-release
				return nil
			})
		}()
		<-held

		err := u.WithinRoomTypes(ctx, []uuid.UUID{roomTypeID}, func(context.Context, shared.Tx) error {
			return nil
		})
		assert.True(t, errs.Is(err, shared.ErrLockTimeout), "got %v", err)

		close(release)
		require.NoError(t, <-done)
	})

	t.Run("success: disjoint room types do not wait on each other", func(t *testing.T) {
		a := seedRoomType(t, pool, 1)
		b := seedRoomType(t, pool, 1)
		held := make(chan struct{})
		release := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			done <- u.WithinRoomTypes(ctx, []uuid.UUID{a}, func(context.Context, shared.Tx) error {
				close(held)
				<-release
				return nil
			})
		}()
		<-held

		require.NoError(t, u.WithinRoomTypes(ctx, []uuid.UUID{b}, func(context.Context, shared.Tx) error { return nil }))
		close(release)
		require.NoError(t, <-done)
	})

	t.Run("success: idempotency key reuse after expiry", func(t *testing.T) {
		roomTypeID := seedRoomType(t, pool, 3)
		res := newReservation(t, roomTypeID, 1, "2030-04-01", "2030-04-02")
		rec := shared.IdempotencyRecord{Key: uuid.New(), GuestID: res.GuestID(), RequestHash: "h1", ReservationID: res.ID(), ExpiresAt: now.Add(time.Hour)}

		require.NoError(t, u.WithinRoomTypes(ctx, res.RoomTypeIDs(), func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Reservations().Create(ctx, res); err != nil {
				return err
			}
			return tx.Idempotency().Save(ctx, rec)
		}))

		again := rec
		again.RequestHash = "h2"
		err := u.WithinRoomTypes(ctx, res.RoomTypeIDs(), func(ctx context.Context, tx shared.Tx) error {
			return tx.Idempotency().Save(ctx, again)
		})
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))

		_, err = pool.Exec(ctx, "UPDATE idempotency_keys SET expires_at = $1 WHERE key = $2", now.Add(-time.Minute), rec.Key)
		require.NoError(t, err)
		require.NoError(t, u.WithinRoomTypes(ctx, res.RoomTypeIDs(), func(ctx context.Context, tx shared.Tx) error {
			return tx.Idempotency().Save(ctx, again)
		}))

		got, err := u.CommandReads().IdempotencyByKey(ctx, rec.Key, rec.GuestID)
		require.NoError(t, err)
		assert.Equal(t, "h2", got.RequestHash)
	})

	t.Run("success: cancel then purge", func(t *testing.T) {
		roomTypeID := seedRoomType(t, pool, 1)
		res := newReservation(t, roomTypeID, 1, "2030-05-01", "2030-05-02")
		require.NoError(t, u.WithinRoomTypes(ctx, res.RoomTypeIDs(), func(ctx context.Context, tx shared.Tx) error {
			return tx.Reservations().Create(ctx, res)
		}))

		require.NoError(t, u.WithinRoomTypes(ctx, res.RoomTypeIDs(), func(ctx context.Context, tx shared.Tx) error {
			cur, err := tx.Reads().ReservationByID(ctx, res.ID())
			if err != nil {
				return err
			}
			cur.Cancel(now)
			return tx.Reservations().UpdateStatus(ctx, cur)
		}))

		active, err := u.CommandReads().ActiveReservations(ctx, roomTypeID, res.Stay().Start(), res.Stay().End())
		require.NoError(t, err)
		assert.Empty(t, active)

		view, err := readstore.NewBookingReadStore(sqlc.New(), pool).FindByID(ctx, res.ID())
		require.NoError(t, err)
		assert.Equal(t, "cancelled", view.Status)
		assert.Equal(t, "Double", view.Items[0].RoomTypeName)

		require.NoError(t, u.WithinRoomTypes(ctx, res.RoomTypeIDs(), func(ctx context.Context, tx shared.Tx) error {
			return tx.Reservations().Delete(ctx, res.ID())
		}))
		_, err = u.CommandReads().ReservationByID(ctx, res.ID())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
