package repository

import (
	"context"

	"hotel-booking/internal/infra"
	sqlc "hotel-booking/internal/infra/sqlc/generated"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/pgconv"
	"hotel-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgtype"
)

//go:generate mockgen -source=idempotency.go -destination=../../../tests/mock/repository/idempotency.go -package=repositorymock

type IdempotencyWriteQueries interface {
	SaveIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.SaveIdempotencyKeyParams) (int64, error)
	DeleteExpiredIdempotencyKeys(ctx context.Context, db sqlc.DBTX, now pgtype.Timestamptz) (int64, error)
}

type IdempotencyRepository struct {
	queries IdempotencyWriteQueries
	db      sqlc.DBTX
	clock   clock.Clock
}

func NewIdempotencyRepository(queries IdempotencyWriteQueries, db sqlc.DBTX, clk clock.Clock) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
		db:      db,
		clock:   clk,
	}
}

// Save records rec. An unexpired record under the same key and guest is kept and
// reported as KindDuplicateKey; an expired one is replaced.
func (r *IdempotencyRepository) Save(ctx context.Context, rec shared.IdempotencyRecord) error {
	affected, err := r.queries.SaveIdempotencyKey(ctx, r.db, sqlc.SaveIdempotencyKeyParams{
		Key:           rec.Key,
		GuestID:       rec.GuestID,
		RequestHash:   rec.RequestHash,
		ReservationID: rec.ReservationID,
		ExpiresAt:     pgconv.TimeToPgtype(rec.ExpiresAt),
		Now:           pgconv.TimeToPgtype(r.clock.Now()),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to save idempotency key", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("idempotency key in use", nil, infra.KindDuplicateKey)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	count, err := r.queries.DeleteExpiredIdempotencyKeys(ctx, r.db, pgconv.TimeToPgtype(r.clock.Now()))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return count, nil
}
