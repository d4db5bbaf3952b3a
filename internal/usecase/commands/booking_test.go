//go:build unit

package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"hotel-booking/internal/domain/availability"
	"hotel-booking/internal/domain/guest"
	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/roomtype"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/infra/memory"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/commands"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTrigger struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (r *recordingTrigger) Enqueue(ids ...uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, ids...)
}

func (r *recordingTrigger) Enqueued() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.ids...)
}

type recordingNotifier struct {
	events chan shared.BookingEvent
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event shared.BookingEvent) error {
	n.events <- event
	return n.err
}

type fixture struct {
	store    *memory.Store
	clock    *clock.MockClock
	trigger  *recordingTrigger
	notifier *recordingNotifier
	cmds     commands.BookingCommands
	hotelID  uuid.UUID
}

func newFixture(t *testing.T, lockTimeout time.Duration) *fixture {
	t.Helper()
	cfg := config.NewTestConfig().Booking
	cfg.LockTimeout = lockTimeout

	clk := clock.NewMockClock(time.Date(2030, 2, 1, 9, 0, 0, 0, time.UTC))
	store := memory.NewStore(cfg.LockTimeout, clk)
	trigger := &recordingTrigger{}
	notifier := &recordingNotifier{events: make(chan shared.BookingEvent, 256)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hotelID := uuid.New()
	store.AddHotel(hotelID, "Harbor View")

	return &fixture{
		store:    store,
		clock:    clk,
		trigger:  trigger,
		notifier: notifier,
		cmds:     commands.NewBookingCommands(store, availability.NewCalculator(cfg.TurnoverBuffer), trigger, notifier, clk, cfg, logger),
		hotelID:  hotelID,
	}
}

func (f *fixture) roomType(t *testing.T, units, capacity int) uuid.UUID {
	t.Helper()
	rt, err := roomtype.New(uuid.New(), f.hotelID, "Double", units, 12000, capacity)
	require.NoError(t, err)
	f.store.AddRoomType(rt)
	return rt.ID()
}

func nights(t *testing.T, inDate, outDate string) stay.Interval {
	t.Helper()
	i, err := stay.ParseInterval(inDate, "14:00", outDate, "11:00")
	require.NoError(t, err)
	return i
}

func cart(guestID uuid.UUID, i stay.Interval, items ...commands.CartItem) commands.SubmitCartInput {
	return commands.SubmitCartInput{GuestID: guestID, GuestContact: "guest@example.com", Stay: i, Items: items}
}

func item(roomTypeID uuid.UUID, qty int) commands.CartItem {
	return commands.CartItem{RoomTypeID: roomTypeID, Quantity: qty}
}

func TestSubmitCart(t *testing.T) {
	ctx := context.Background()

	t.Run("success: overlapping request is rejected and back-to-back request is admitted", func(t *testing.T) {
		f := newFixture(t, time.Second)
		rt := f.roomType(t, 2, 2)

		_, err := f.cmds.SubmitCart(ctx, cart(uuid.New(), nights(t, "2030-03-01", "2030-03-03"), item(rt, 2)))
		require.NoError(t, err)

		_, err = f.cmds.SubmitCart(ctx, cart(uuid.New(), nights(t, "2030-03-02", "2030-03-04"), item(rt, 1)))
		require.Error(t, err)
		assert.True(t, errs.Is(err, commands.ErrCapacityRejected))
		var rejection *commands.CapacityRejection
		require.True(t, errs.As(err, &rejection))
		require.Len(t, rejection.Shortfalls, 1)
		assert.Equal(t, commands.Shortfall{RoomTypeID: rt, Requested: 1, Free: 0, Shortfall: 1}, rejection.Shortfalls[0])

		got, err := f.cmds.SubmitCart(ctx, cart(uuid.New(), nights(t, "2030-03-03", "2030-03-05"), item(rt, 1)))
		require.NoError(t, err)
		assert.False(t, got.Replayed)
		assert.Equal(t, reservation.StatusActive, got.Reservation.Status())
	})

	t.Run("success: line items carry the nightly rate", func(t *testing.T) {
		f := newFixture(t, time.Second)
		rt := f.roomType(t, 3, 2)

		got, err := f.cmds.SubmitCart(ctx, cart(uuid.New(), nights(t, "2030-03-01", "2030-03-02"), item(rt, 2)))
		require.NoError(t, err)

		items := got.Reservation.LineItems()
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity())
		assert.Equal(t, int64(12000), items[0].UnitPriceCents())
	})

	t.Run("error: cart is all-or-nothing", func(t *testing.T) {
		f := newFixture(t, time.Second)
		free := f.roomType(t, 1, 2)
		full := f.roomType(t, 1, 2)
		i := nights(t, "2030-03-10", "2030-03-12")

		_, err := f.cmds.SubmitCart(ctx, cart(uuid.New(), i, item(full, 1)))
		require.NoError(t, err)

		_, err = f.cmds.SubmitCart(ctx, cart(uuid.New(), i, item(free, 1), item(full, 1)))
		var rejection *commands.CapacityRejection
		require.True(t, errs.As(err, &rejection))
		require.Len(t, rejection.Shortfalls, 1)
		assert.Equal(t, full, rejection.Shortfalls[0].RoomTypeID)

		existing, err := f.store.ActiveReservations(ctx, free, i.Start(), i.End())
		require.NoError(t, err)
		assert.Empty(t, existing, "no unit of the satisfiable room type may be held")
	})

	t.Run("error: demand for the same room type is summed across line items", func(t *testing.T) {
		f := newFixture(t, time.Second)
		rt := f.roomType(t, 1, 2)

		_, err := f.cmds.SubmitCart(ctx, cart(uuid.New(), nights(t, "2030-03-01", "2030-03-02"), item(rt, 1), item(rt, 1)))
		var rejection *commands.CapacityRejection
		require.True(t, errs.As(err, &rejection))
		assert.Equal(t, 2, rejection.Shortfalls[0].Requested)
		assert.Equal(t, 1, rejection.Shortfalls[0].Shortfall)
	})

	t.Run("error: invalid input", func(t *testing.T) {
		f := newFixture(t, time.Second)
		rt := f.roomType(t, 2, 2)
		valid := nights(t, "2030-03-01", "2030-03-02")
		one := 1
		five := 5

		reversed, err := stay.FromTimestamps(valid.End(), valid.Start())
		require.Error(t, err)

		tests := []struct {
			name    string
			input   commands.SubmitCartInput
			wantErr error
		}{
			{"zero quantity", cart(uuid.New(), valid, item(rt, 0)), commands.ErrInvalidQuantity},
			{"negative quantity", cart(uuid.New(), valid, item(rt, -1)), commands.ErrInvalidQuantity},
			{"empty cart", cart(uuid.New(), valid), commands.ErrInvalidQuantity},
			{"reversed interval", cart(uuid.New(), reversed, item(rt, 1)), commands.ErrInvalidInterval},
			{"check-in in the past", cart(uuid.New(), nights(t, "2030-01-20", "2030-01-22"), item(rt, 1)), commands.ErrInvalidInterval},
			{"unknown room type", cart(uuid.New(), valid, item(uuid.New(), 1)), commands.ErrRoomTypeNotFound},
			{"too many guests", func() commands.SubmitCartInput {
				in := cart(uuid.New(), valid, item(rt, 2))
				in.Guests = &five
				return in
			}(), commands.ErrInsufficientOccupancy},
			{"ok guests still needs capacity", func() commands.SubmitCartInput {
				in := cart(uuid.New(), valid, item(rt, 3))
				in.Guests = &one
				return in
			}(), commands.ErrCapacityRejected},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.cmds.SubmitCart(ctx, tt.input)
				require.Error(t, err)
				assert.True(t, errs.Is(err, tt.wantErr), "got %v", err)
			})
		}
	})

	t.Run("success: notifies and refreshes the projection after commit", func(t *testing.T) {
		f := newFixture(t, time.Second)
		rt := f.roomType(t, 1, 2)
		guestID := uuid.New()

		got, err := f.cmds.SubmitCart(ctx, cart(guestID, nights(t, "2030-03-01", "2030-03-02"), item(rt, 1)))
		require.NoError(t, err)

		select {
		case event := <-f.notifier.events:
			assert.Equal(t, shared.EventReservationCommitted, event.Kind)
			assert.Equal(t, got.Reservation.ID(), event.ReservationID)
			assert.Equal(t, guestID, event.GuestID)
			assert.Equal(t, "guest@example.com", event.GuestContact)
		case <-time.After(time.Second):
			t.Fatal("notification not delivered")
		}
		assert.Equal(t, []uuid.UUID{rt}, f.trigger.Enqueued())
	})

	t.Run("success: notification failure does not undo the commit", func(t *testing.T) {
		f := newFixture(t, time.Second)
		f.notifier.err = errors.New("smtp down")
		rt := f.roomType(t, 1, 2)

		got, err := f.cmds.SubmitCart(ctx, cart(uuid.New(), nights(t, "2030-03-01", "2030-03-02"), item(rt, 1)))
		require.NoError(t, err)
		<-f.notifier.events

		stored, err := f.store.ReservationByID(ctx, got.Reservation.ID())
		require.NoError(t, err)
		assert.True(t, stored.IsActive())
	})

	t.Run("error: lock wait exceeded is reported as contention", func(t *testing.T) {
		f := newFixture(t, 50*time.Millisecond)
		rt := f.roomType(t, 5, 2)

		held := make(chan struct{})
		done := make(chan struct{})
		go func() {
			_ = f.store.WithinRoomTypes(ctx, []uuid.UUID{rt}, func(context.Context, shared.Tx) error {
				close(held)
				<-done
				return nil
			})
		}()
		<-held
		defer close(done)

		_, err := f.cmds.SubmitCart(ctx, cart(uuid.New(), nights(t, "2030-03-01", "2030-03-02"), item(rt, 1)))
		require.Error(t, err)
		assert.True(t, errs.Is(err, commands.ErrConcurrencyContention))
		assert.Empty(t, <-drain(f.notifier.events))
	})
}

// drain collects already delivered events without waiting.
func drain(events chan shared.BookingEvent) <-chan []shared.BookingEvent {
	out := make(chan []shared.BookingEvent, 1)
	var got []shared.BookingEvent
	for {
		select {
		case e := <-events:
			got = append(got, e)
		default:
			out <- got
			return out
		}
	}
}

func TestSubmitCart_Idempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("success: same key and body replays the original reservation", func(t *testing.T) {
		f := newFixture(t, time.Second)
		rt := f.roomType(t, 2, 2)
		key := uuid.New()
		in := cart(uuid.New(), nights(t, "2030-03-01", "2030-03-02"), item(rt, 1))
		in.IdempotencyKey = &key

		first, err := f.cmds.SubmitCart(ctx, in)
		require.NoError(t, err)
		second, err := f.cmds.SubmitCart(ctx, in)
		require.NoError(t, err)

		assert.True(t, second.Replayed)
		assert.Equal(t, first.Reservation.ID(), second.Reservation.ID())

		existing, err := f.store.ActiveReservations(ctx, rt, in.Stay.Start(), in.Stay.End())
		require.NoError(t, err)
		assert.Len(t, existing, 1)
	})

	t.Run("error: same key with a different body", func(t *testing.T) {
		f := newFixture(t, time.Second)
		rt := f.roomType(t, 2, 2)
		key := uuid.New()
		guestID := uuid.New()

		in := cart(guestID, nights(t, "2030-03-01", "2030-03-02"), item(rt, 1))
		in.IdempotencyKey = &key
		_, err := f.cmds.SubmitCart(ctx, in)
		require.NoError(t, err)

		in.Items = []commands.CartItem{item(rt, 2)}
		_, err = f.cmds.SubmitCart(ctx, in)
		assert.True(t, errs.Is(err, commands.ErrIdempotencyKeyReused))
	})

	t.Run("success: expired key is accepted again", func(t *testing.T) {
		f := newFixture(t, time.Second)
		rt := f.roomType(t, 2, 2)
		key := uuid.New()
		in := cart(uuid.New(), nights(t, "2030-03-01", "2030-03-02"), item(rt, 1))
		in.IdempotencyKey = &key

		first, err := f.cmds.SubmitCart(ctx, in)
		require.NoError(t, err)

		f.clock.Add(2 * time.Hour)
		second, err := f.cmds.SubmitCart(ctx, in)
		require.NoError(t, err)
		assert.False(t, second.Replayed)
		assert.NotEqual(t, first.Reservation.ID(), second.Reservation.ID())
	})
}

func TestSubmitCart_Concurrency(t *testing.T) {
	ctx := context.Background()

	t.Run("success: exactly one of two racing requests for the last unit commits", func(t *testing.T) {
		for range 20 {
			f := newFixture(t, time.Second)
			rt := f.roomType(t, 1, 2)
			i := nights(t, "2030-03-01", "2030-03-03")

			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				committed int
				rejected  int
			)
			for range 2 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := f.cmds.SubmitCart(ctx, cart(uuid.New(), i, item(rt, 1)))
					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						committed++
					} else if errs.Is(err, commands.ErrCapacityRejected) {
						rejected++
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, committed)
			assert.Equal(t, 1, rejected)
		}
	})

	t.Run("success: random concurrent carts and cancellations never oversell", func(t *testing.T) {
		f := newFixture(t, 5*time.Second)
		const units = 3
		roomTypes := []uuid.UUID{f.roomType(t, units, 2), f.roomType(t, units, 2)}
		rng := rand.New(rand.NewPCG(7, 11))
		base := time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)

		randomCart := func() commands.SubmitCartInput {
			start := base.AddDate(0, 0, rng.IntN(10))
			end := start.AddDate(0, 0, 1+rng.IntN(4))
			i := nights(t, start.Format(time.DateOnly), end.Format(time.DateOnly))
			items := []commands.CartItem{item(roomTypes[rng.IntN(2)], 1+rng.IntN(2))}
			if rng.IntN(3) == 0 {
				items = append(items, item(roomTypes[rng.IntN(2)], 1))
			}
			return cart(uuid.New(), i, items...)
		}

		// existing bookings that get cancelled while new carts are admitted
		var seeded []shared.Actor
		var seededIDs []uuid.UUID
		for range 20 {
			in := randomCart()
			res, err := f.cmds.SubmitCart(ctx, in)
			if err != nil {
				require.True(t, errs.Is(err, commands.ErrCapacityRejected), "unexpected error: %v", err)
				continue
			}
			seeded = append(seeded, shared.Actor{ID: in.GuestID, Role: guest.RoleGuest})
			seededIDs = append(seededIDs, res.Reservation.ID())
		}
		require.NotEmpty(t, seededIDs)

		inputs := make([]commands.SubmitCartInput, 80)
		cancelOwn := make([]bool, len(inputs))
		for n := range inputs {
			inputs[n] = randomCart()
			cancelOwn[n] = rng.IntN(3) == 0
		}

		var wg sync.WaitGroup
		for n, in := range inputs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := f.cmds.SubmitCart(ctx, in)
				if err != nil {
					assert.True(t, errs.Is(err, commands.ErrCapacityRejected), "unexpected error: %v", err)
					return
				}
				if cancelOwn[n] {
					_, err := f.cmds.Cancel(ctx, res.Reservation.ID(), shared.Actor{ID: in.GuestID, Role: guest.RoleGuest})
					assert.NoError(t, err)
				}
			}()
			if n%4 == 0 && len(seededIDs) > 0 {
				id, owner := seededIDs[0], seeded[0]
				seededIDs, seeded = seededIDs[1:], seeded[1:]
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := f.cmds.Cancel(ctx, id, owner)
					assert.NoError(t, err)
				}()
			}
		}
		wg.Wait()

		for _, rt := range roomTypes {
			held, err := f.store.ActiveReservations(ctx, rt, base, base.AddDate(0, 1, 0))
			require.NoError(t, err)
			// consumption only rises at a check-in, so checking every check-in instant covers the timeline
			for _, booked := range held {
				at := booked.Stay().Start()
				used := 0
				for _, res := range held {
					if !res.Stay().Start().After(at) && res.Stay().End().After(at) {
						used += res.QuantityFor(rt)
					}
				}
				assert.LessOrEqual(t, used, units, "room type %s oversold at %s", rt, at)
			}
		}
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("success: cancelling twice is idempotent and frees the units", func(t *testing.T) {
		f := newFixture(t, time.Second)
		rt := f.roomType(t, 1, 2)
		owner := shared.Actor{ID: uuid.New(), Role: guest.RoleGuest, Contact: "owner@example.com"}
		i := nights(t, "2030-03-01", "2030-03-03")

		booked, err := f.cmds.SubmitCart(ctx, cart(owner.ID, i, item(rt, 1)))
		require.NoError(t, err)
		<-f.notifier.events

		first, err := f.cmds.Cancel(ctx, booked.Reservation.ID(), owner)
		require.NoError(t, err)
		assert.True(t, first.Changed)
		assert.Equal(t, reservation.StatusCancelled, first.Reservation.Status())

		second, err := f.cmds.Cancel(ctx, booked.Reservation.ID(), owner)
		require.NoError(t, err)
		assert.False(t, second.Changed)
		assert.Equal(t, reservation.StatusCancelled, second.Reservation.Status())

		event := <-f.notifier.events
		assert.Equal(t, shared.EventReservationCancelled, event.Kind)
		assert.Empty(t, <-drain(f.notifier.events), "second cancel must not notify")

		_, err = f.cmds.SubmitCart(ctx, cart(uuid.New(), i, item(rt, 1)))
		require.NoError(t, err)
	})

	t.Run("error: another guest cannot see the reservation", func(t *testing.T) {
		f := newFixture(t, time.Second)
		rt := f.roomType(t, 1, 2)

		booked, err := f.cmds.SubmitCart(ctx, cart(uuid.New(), nights(t, "2030-03-01", "2030-03-03"), item(rt, 1)))
		require.NoError(t, err)

		_, err = f.cmds.Cancel(ctx, booked.Reservation.ID(), shared.Actor{ID: uuid.New(), Role: guest.RoleGuest})
		assert.True(t, errs.Is(err, commands.ErrReservationNotFound))

		got, err := f.cmds.Cancel(ctx, booked.Reservation.ID(), shared.Actor{ID: uuid.New(), Role: guest.RoleStaff})
		require.NoError(t, err)
		assert.True(t, got.Changed)
	})

	t.Run("error: unknown reservation", func(t *testing.T) {
		f := newFixture(t, time.Second)
		_, err := f.cmds.Cancel(ctx, uuid.New(), shared.Actor{ID: uuid.New(), Role: guest.RoleAdmin})
		assert.True(t, errs.Is(err, commands.ErrReservationNotFound))
	})
}

func TestPurge(t *testing.T) {
	ctx := context.Background()

	t.Run("success: purge removes the reservation", func(t *testing.T) {
		f := newFixture(t, time.Second)
		rt := f.roomType(t, 1, 2)

		booked, err := f.cmds.SubmitCart(ctx, cart(uuid.New(), nights(t, "2030-03-01", "2030-03-03"), item(rt, 1)))
		require.NoError(t, err)

		require.NoError(t, f.cmds.Purge(ctx, booked.Reservation.ID()))

		_, err = f.store.ReservationByID(ctx, booked.Reservation.ID())
		require.Error(t, err)

		err = f.cmds.Purge(ctx, booked.Reservation.ID())
		assert.True(t, errs.Is(err, commands.ErrReservationNotFound))
		assert.Equal(t, []uuid.UUID{rt, rt}, f.trigger.Enqueued())
	})
}
