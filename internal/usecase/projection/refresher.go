// Package projection maintains the display-only "available now" counter per room type.
// Nothing on the admission path reads it.
package projection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"hotel-booking/internal/domain/availability"
	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/roomtype"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/pkg/errs"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrSnapshotMissing = errs.New("projection snapshot missing")

type Snapshot struct {
	RoomTypeID     uuid.UUID `json:"room_type_id"`
	TotalUnits     int       `json:"total_units"`
	FreeUnits      int       `json:"free_units"`
	ReferenceStart time.Time `json:"reference_start"`
	ReferenceEnd   time.Time `json:"reference_end"`
	RefreshedAt    time.Time `json:"refreshed_at"`
}

// Store persists snapshots. Get returns ErrSnapshotMissing when nothing is cached.
type Store interface {
	Put(ctx context.Context, snap Snapshot) error
	Get(ctx context.Context, roomTypeID uuid.UUID) (*Snapshot, error)
}

type Reads interface {
	RoomTypeByID(ctx context.Context, id uuid.UUID) (*roomtype.RoomType, error)
	ActiveReservations(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]*reservation.Reservation, error)
	RoomTypeIDs(ctx context.Context) ([]uuid.UUID, error)
}

type Refresher struct {
	reads    Reads
	store    Store
	calc     availability.Calculator
	clock    clock.Clock
	logger   *slog.Logger
	checkIn  stay.TimeOfDay
	checkOut stay.TimeOfDay
	workers  int

	queue   chan uuid.UUID
	stopped chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func NewRefresher(
	reads Reads,
	store Store,
	calc availability.Calculator,
	clk clock.Clock,
	cfg config.BookingConfig,
	logger *slog.Logger,
) (*Refresher, error) {
	checkIn, err := stay.ParseTimeOfDay(cfg.DefaultCheckIn)
	if err != nil {
		return nil, errs.Wrap(err, "default check-in time")
	}
	checkOut, err := stay.ParseTimeOfDay(cfg.DefaultCheckOut)
	if err != nil {
		return nil, errs.Wrap(err, "default check-out time")
	}
	workers := max(1, cfg.ProjectionWorkers)
	queueSize := max(1, cfg.ProjectionQueue)

	return &Refresher{
		reads:    reads,
		store:    store,
		calc:     calc,
		clock:    clk,
		logger:   logger,
		checkIn:  checkIn,
		checkOut: checkOut,
		workers:  workers,
		queue:    make(chan uuid.UUID, queueSize),
		stopped:  make(chan struct{}),
	}, nil
}

// Start launches the worker pool.
func (r *Refresher) Start() {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.work(i)
	}
	r.logger.Info("projection refresher started", "workers", r.workers)
}

// Stop stops accepting work and waits for in-flight refreshes or ctx expiry.
func (r *Refresher) Stop(ctx context.Context) error {
	r.once.Do(func() { close(r.stopped) })

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue never blocks: when the queue is full the refresh is dropped and the
// snapshot stays stale until the next trigger.
func (r *Refresher) Enqueue(roomTypeIDs ...uuid.UUID) {
	for _, id := range roomTypeIDs {
		select {
		case <-r.stopped:
			return
		default:
		}
		select {
		case r.queue <- id:
		default:
			r.logger.Warn("projection queue full, dropping refresh", "room_type_id", id)
		}
	}
}

func (r *Refresher) work(n int) {
	defer r.wg.Done()
	for {
		select {
		case <-r.stopped:
			return
		case id := <-r.queue:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if _, err := r.Refresh(ctx, id); err != nil {
				r.logger.Warn("projection refresh failed", "worker", n, "room_type_id", id, "error", err.Error())
			}
			cancel()
		}
	}
}

// ReferenceInterval is tonight's stay: today at the default check-in time until
// tomorrow at the default check-out time.
func (r *Refresher) ReferenceInterval() (stay.Interval, error) {
	today := clock.Today(r.clock)
	return stay.NewInterval(today, r.checkIn, today.AddDate(0, 0, 1), r.checkOut)
}

// Compute derives a snapshot for rt without storing it.
func (r *Refresher) Compute(ctx context.Context, rt *roomtype.RoomType) (*Snapshot, error) {
	ref, err := r.ReferenceInterval()
	if err != nil {
		return nil, err
	}
	from, to := ref.Window(r.calc.TurnoverBuffer())
	existing, err := r.reads.ActiveReservations(ctx, rt.ID(), from, to)
	if err != nil {
		return nil, errs.Wrap(err, "load reservations for projection")
	}
	result, err := r.calc.Compute(rt.ID(), rt.TotalUnits(), ref, existing)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		RoomTypeID:     rt.ID(),
		TotalUnits:     result.TotalUnits,
		FreeUnits:      result.FreeUnits,
		ReferenceStart: ref.Start(),
		ReferenceEnd:   ref.End(),
		RefreshedAt:    r.clock.Now().UTC(),
	}, nil
}

// Refresh recomputes and stores the snapshot of one room type.
func (r *Refresher) Refresh(ctx context.Context, roomTypeID uuid.UUID) (*Snapshot, error) {
	rt, err := r.reads.RoomTypeByID(ctx, roomTypeID)
	if err != nil {
		return nil, errs.Wrap(err, "load room type for projection")
	}
	snap, err := r.Compute(ctx, rt)
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, *snap); err != nil {
		return nil, errs.Wrap(err, "store projection snapshot")
	}
	return snap, nil
}

// Warm refreshes every catalog room type concurrently, bounded by the worker count.
func (r *Refresher) Warm(ctx context.Context) error {
	ids, err := r.reads.RoomTypeIDs(ctx)
	if err != nil {
		return errs.Wrap(err, "list room types")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, id := range ids {
		g.Go(func() error {
			_, err := r.Refresh(gctx, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	r.logger.Info("projection warmed", "room_types", len(ids))
	return nil
}

// Snapshot reads the cached value for roomTypeID.
func (r *Refresher) Snapshot(ctx context.Context, roomTypeID uuid.UUID) (*Snapshot, error) {
	return r.store.Get(ctx, roomTypeID)
}
