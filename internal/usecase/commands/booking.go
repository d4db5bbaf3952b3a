package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"hotel-booking/internal/domain/availability"
	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/roomtype"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hotel-booking/usecase/commands")

type CartItem struct {
	RoomTypeID uuid.UUID
	Quantity   int
}

type SubmitCartInput struct {
	GuestID        uuid.UUID
	GuestContact   string
	Stay           stay.Interval
	Items          []CartItem
	Guests         *int
	IdempotencyKey *uuid.UUID
}

type SubmitCartResult struct {
	Reservation *reservation.Reservation
	Replayed    bool
}

type CancelResult struct {
	Reservation *reservation.Reservation
	// Changed is false when the reservation was already cancelled.
	Changed bool
}

//go:generate mockgen -destination=../../../tests/mock/commands/booking.go -package=commandsmock hotel-booking/internal/usecase/commands BookingCommands

type BookingCommands interface {
	// SubmitCart admits every line item of the cart or none of them.
	SubmitCart(ctx context.Context, in SubmitCartInput) (*SubmitCartResult, error)
	Cancel(ctx context.Context, reservationID uuid.UUID, actor shared.Actor) (*CancelResult, error)
	// Purge physically deletes a reservation.
	Purge(ctx context.Context, reservationID uuid.UUID) error
}

type admissionState string

const (
	stateValidating       admissionState = "validating"
	stateCheckingCapacity admissionState = "checking_capacity"
	stateCommitting       admissionState = "committing"
	stateCommitted        admissionState = "committed"
	stateRejected         admissionState = "rejected"
)

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	calc           availability.Calculator
	projection     shared.ProjectionTrigger
	notifier       shared.Notifier
	clock          clock.Clock
	logger         *slog.Logger
	notifyTimeout  time.Duration
	idempotencyTTL time.Duration
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	calc availability.Calculator,
	projection shared.ProjectionTrigger,
	notifier shared.Notifier,
	clk clock.Clock,
	cfg config.BookingConfig,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		calc:           calc,
		projection:     projection,
		notifier:       notifier,
		clock:          clk,
		logger:         logger,
		notifyTimeout:  cfg.NotifyTimeout,
		idempotencyTTL: cfg.IdempotencyTTL,
	}
}

// demand is the cart aggregated per room type, ordered by room type id.
type demand struct {
	roomTypeIDs []uuid.UUID
	quantity    map[uuid.UUID]int
}

func (b *bookingCommandsImpl) SubmitCart(ctx context.Context, in SubmitCartInput) (result *SubmitCartResult, err error) {
	ctx, span := tracer.Start(ctx, "BookingCommands.SubmitCart", trace.WithAttributes(
		attribute.String("guest.id", in.GuestID.String()),
		attribute.Int("cart.items", len(in.Items)),
	))
	defer func() { endSpan(span, err) }()

	b.transition(ctx, stateValidating, in.GuestID)
	d, err := b.validateCart(in)
	if err != nil {
		b.transition(ctx, stateRejected, in.GuestID, "reason", err.Error())
		return nil, err
	}

	requestHash := calculateRequestHash(in, d)
	if in.IdempotencyKey != nil {
		replayed, err := b.replay(ctx, b.uow.CommandReads(), *in.IdempotencyKey, in.GuestID, requestHash)
		if err != nil || replayed != nil {
			return replayed, err
		}
	}

	var (
		created  *reservation.Reservation
		replayed *SubmitCartResult
	)
	err = b.uow.WithinRoomTypes(ctx, d.roomTypeIDs, func(ctx context.Context, tx shared.Tx) error {
		if in.IdempotencyKey != nil {
			// a concurrent request with the same key may have committed while we waited
			r, err := b.replay(ctx, tx.Reads(), *in.IdempotencyKey, in.GuestID, requestHash)
			if err != nil || r != nil {
				replayed = r
				return err
			}
		}

		b.transition(ctx, stateCheckingCapacity, in.GuestID)
		roomTypes, err := b.admit(ctx, tx.Reads(), in, d)
		if err != nil {
			return err
		}

		b.transition(ctx, stateCommitting, in.GuestID)
		booked, err := b.buildReservation(in, d, roomTypes)
		if err != nil {
			return err
		}
		if err := tx.Reservations().Create(ctx, booked); err != nil {
			return errs.Wrap(err, "create reservation")
		}
		if in.IdempotencyKey != nil {
			rec := shared.IdempotencyRecord{
				Key:           *in.IdempotencyKey,
				GuestID:       in.GuestID,
				RequestHash:   requestHash,
				ReservationID: booked.ID(),
				ExpiresAt:     b.clock.Now().Add(b.idempotencyTTL),
			}
			if err := tx.Idempotency().Save(ctx, rec); err != nil {
				if infra.IsKind(err, infra.KindDuplicateKey) {
					return errs.Mark(err, ErrIdempotencyKeyReused)
				}
				return errs.Wrap(err, "save idempotency key")
			}
		}
		created = booked
		return nil
	})
	if err != nil {
		err = mapBoundaryErr(err)
		b.transition(ctx, stateRejected, in.GuestID, "reason", err.Error())
		return nil, err
	}
	if replayed != nil {
		return replayed, nil
	}

	b.transition(ctx, stateCommitted, in.GuestID, "reservation_id", created.ID())
	span.SetAttributes(attribute.String("reservation.id", created.ID().String()))
	b.afterCommit(ctx, shared.EventReservationCommitted, created, in.GuestContact)

	return &SubmitCartResult{Reservation: created}, nil
}

func (b *bookingCommandsImpl) validateCart(in SubmitCartInput) (demand, error) {
	if err := in.Stay.Validate(); err != nil {
		return demand{}, errs.Mark(err, ErrInvalidInterval)
	}
	if in.Stay.CheckInDate().Before(clock.Today(b.clock)) {
		return demand{}, errs.Wrap(ErrInvalidInterval, "check-in date is in the past")
	}
	if len(in.Items) == 0 {
		return demand{}, errs.Mark(reservation.ErrEmptyCart, ErrInvalidQuantity)
	}
	if in.Guests != nil && *in.Guests < 1 {
		return demand{}, errs.Wrap(ErrInsufficientOccupancy, "guests must be at least 1")
	}

	d := demand{quantity: make(map[uuid.UUID]int, len(in.Items))}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return demand{}, errs.Wrapf(ErrInvalidQuantity, "room type %s: quantity %d", it.RoomTypeID, it.Quantity)
		}
		if _, seen := d.quantity[it.RoomTypeID]; !seen {
			d.roomTypeIDs = append(d.roomTypeIDs, it.RoomTypeID)
		}
		d.quantity[it.RoomTypeID] += it.Quantity
	}
	d.roomTypeIDs = reservation.SortedUnique(d.roomTypeIDs)
	return d, nil
}

// admit checks every room type of the cart against the authoritative store. It
// reports all failing room types at once.
func (b *bookingCommandsImpl) admit(ctx context.Context, reads shared.CommandReads, in SubmitCartInput, d demand) (map[uuid.UUID]*roomtype.RoomType, error) {
	roomTypes := make(map[uuid.UUID]*roomtype.RoomType, len(d.roomTypeIDs))
	for _, id := range d.roomTypeIDs {
		rt, err := reads.RoomTypeByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(errs.Wrapf(err, "room type %s", id), ErrRoomTypeNotFound)
			}
			return nil, errs.Wrap(err, "load room type")
		}
		roomTypes[id] = rt
	}

	if in.Guests != nil {
		capacity := 0
		for _, id := range d.roomTypeIDs {
			capacity += d.quantity[id] * roomTypes[id].CapacityPerUnit()
		}
		if capacity < *in.Guests {
			return nil, &OccupancyShortfall{Guests: *in.Guests, Capacity: capacity}
		}
	}

	from, to := in.Stay.Window(b.calc.TurnoverBuffer())
	var shortfalls []Shortfall
	for _, id := range d.roomTypeIDs {
		existing, err := reads.ActiveReservations(ctx, id, from, to)
		if err != nil {
			return nil, errs.Wrap(err, "load overlapping reservations")
		}
		result, err := b.calc.Compute(id, roomTypes[id].TotalUnits(), in.Stay, existing)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidInterval)
		}
		requested := d.quantity[id]
		if !result.CanServe(requested) {
			shortfalls = append(shortfalls, Shortfall{
				RoomTypeID: id,
				Requested:  requested,
				Free:       result.FreeUnits,
				Shortfall:  result.Shortfall(requested),
			})
		}
	}
	if len(shortfalls) > 0 {
		return nil, &CapacityRejection{Shortfalls: shortfalls}
	}
	return roomTypes, nil
}

func (b *bookingCommandsImpl) buildReservation(in SubmitCartInput, d demand, roomTypes map[uuid.UUID]*roomtype.RoomType) (*reservation.Reservation, error) {
	items := make([]reservation.LineItem, 0, len(d.roomTypeIDs))
	for _, id := range d.roomTypeIDs {
		item, err := reservation.NewLineItem(id, d.quantity[id], roomTypes[id].NightlyRateCents())
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidQuantity)
		}
		items = append(items, item)
	}
	res, err := reservation.NewReservation(in.GuestID, in.Stay, items, b.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidQuantity)
	}
	return res, nil
}

// replay returns the reservation recorded under key, nil when the key is unused
// or expired, or ErrIdempotencyKeyReused when the key was used for another request.
func (b *bookingCommandsImpl) replay(ctx context.Context, reads shared.CommandReads, key, guestID uuid.UUID, requestHash string) (*SubmitCartResult, error) {
	rec, err := reads.IdempotencyByKey(ctx, key, guestID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Wrap(err, "load idempotency key")
	}
	if !rec.ExpiresAt.After(b.clock.Now()) {
		return nil, nil
	}
	if rec.RequestHash != requestHash {
		return nil, ErrIdempotencyKeyReused
	}

	res, err := reads.ReservationByID(ctx, rec.ReservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// the reservation was purged; the key no longer maps to anything
			return nil, errs.Mark(err, ErrReservationNotFound)
		}
		return nil, errs.Wrap(err, "load replayed reservation")
	}
	b.logger.DebugContext(ctx, "idempotent replay", "idempotency_key", key, "reservation_id", res.ID())
	return &SubmitCartResult{Reservation: res, Replayed: true}, nil
}

func (b *bookingCommandsImpl) Cancel(ctx context.Context, reservationID uuid.UUID, actor shared.Actor) (result *CancelResult, err error) {
	ctx, span := tracer.Start(ctx, "BookingCommands.Cancel", trace.WithAttributes(
		attribute.String("reservation.id", reservationID.String()),
	))
	defer func() { endSpan(span, err) }()

	current, err := b.loadReservation(ctx, b.uow.CommandReads(), reservationID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(current.GuestID()) {
		return nil, ErrReservationNotFound
	}
	if !current.IsActive() {
		return &CancelResult{Reservation: current}, nil
	}

	var changed bool
	err = b.uow.WithinRoomTypes(ctx, current.RoomTypeIDs(), func(ctx context.Context, tx shared.Tx) error {
		res, err := b.loadReservation(ctx, tx.Reads(), reservationID)
		if err != nil {
			return err
		}
		current = res
		if !res.Cancel(b.clock.Now()) {
			return nil
		}
		if err := tx.Reservations().UpdateStatus(ctx, res); err != nil {
			return errs.Wrap(err, "update reservation status")
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, mapBoundaryErr(err)
	}

	if changed {
		b.logger.InfoContext(ctx, "reservation cancelled", "reservation_id", reservationID, "actor_id", actor.ID)
		b.afterCommit(ctx, shared.EventReservationCancelled, current, actor.Contact)
	}
	return &CancelResult{Reservation: current, Changed: changed}, nil
}

func (b *bookingCommandsImpl) Purge(ctx context.Context, reservationID uuid.UUID) (err error) {
	ctx, span := tracer.Start(ctx, "BookingCommands.Purge", trace.WithAttributes(
		attribute.String("reservation.id", reservationID.String()),
	))
	defer func() { endSpan(span, err) }()

	current, err := b.loadReservation(ctx, b.uow.CommandReads(), reservationID)
	if err != nil {
		return err
	}

	err = b.uow.WithinRoomTypes(ctx, current.RoomTypeIDs(), func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Reservations().Delete(ctx, reservationID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrReservationNotFound)
			}
			return errs.Wrap(err, "delete reservation")
		}
		return nil
	})
	if err != nil {
		return mapBoundaryErr(err)
	}

	b.logger.InfoContext(ctx, "reservation purged", "reservation_id", reservationID)
	b.projection.Enqueue(current.RoomTypeIDs()...)
	return nil
}

func (b *bookingCommandsImpl) loadReservation(ctx context.Context, reads shared.CommandReads, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := reads.ReservationByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrReservationNotFound)
		}
		return nil, errs.Wrap(err, "load reservation")
	}
	return res, nil
}

// afterCommit refreshes the projection and hands the event to the notifier.
// Neither can undo the commit.
func (b *bookingCommandsImpl) afterCommit(ctx context.Context, kind shared.EventKind, res *reservation.Reservation, contact string) {
	b.projection.Enqueue(res.RoomTypeIDs()...)

	event := shared.BookingEvent{
		Kind:          kind,
		ReservationID: res.ID(),
		GuestID:       res.GuestID(),
		GuestContact:  contact,
		CheckIn:       res.Stay().Start(),
		CheckOut:      res.Stay().End(),
		RoomTypeIDs:   res.RoomTypeIDs(),
		OccurredAt:    b.clock.Now().UTC(),
	}
	notifyCtx := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(notifyCtx, b.notifyTimeout)
		defer cancel()
		if err := b.notifier.Notify(ctx, event); err != nil {
			b.logger.WarnContext(ctx, "booking notification failed",
				"kind", string(event.Kind),
				"reservation_id", event.ReservationID,
				"error", err.Error(),
			)
		}
	}()
}

func (b *bookingCommandsImpl) transition(ctx context.Context, state admissionState, guestID uuid.UUID, args ...any) {
	b.logger.DebugContext(ctx, "admission", append([]any{"state", string(state), "guest_id", guestID}, args...)...)
}

// mapBoundaryErr turns lock and storage-guard failures into the retryable contention error.
func mapBoundaryErr(err error) error {
	switch {
	case errs.Is(err, shared.ErrLockTimeout):
		return errs.Mark(err, ErrConcurrencyContention)
	case infra.IsKind(err, infra.KindLockTimeout), infra.IsKind(err, infra.KindConflict):
		return errs.Mark(err, ErrConcurrencyContention)
	default:
		return err
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

type requestFingerprint struct {
	GuestID  uuid.UUID         `json:"guest_id"`
	CheckIn  time.Time         `json:"check_in"`
	CheckOut time.Time         `json:"check_out"`
	Items    []fingerprintItem `json:"items"`
	Guests   *int              `json:"guests,omitempty"`
}

type fingerprintItem struct {
	RoomTypeID uuid.UUID `json:"room_type_id"`
	Quantity   int       `json:"quantity"`
}

// calculateRequestHash fingerprints the aggregated cart, so item order does not matter.
func calculateRequestHash(in SubmitCartInput, d demand) string {
	items := make([]fingerprintItem, 0, len(d.roomTypeIDs))
	for _, id := range d.roomTypeIDs {
		items = append(items, fingerprintItem{RoomTypeID: id, Quantity: d.quantity[id]})
	}
	data, _ := json.Marshal(requestFingerprint{
		GuestID:  in.GuestID,
		CheckIn:  in.Stay.Start(),
		CheckOut: in.Stay.End(),
		Items:    items,
		Guests:   in.Guests,
	})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
