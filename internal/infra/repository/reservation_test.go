//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/infra/repository"
	sqlc "hotel-booking/internal/infra/sqlc/generated"
	"hotel-booking/tests/common/builder"
	repositorymock "hotel-booking/tests/mock/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// =============================================================================
// Create Reservation Tests
// =============================================================================

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()
	roomA, roomB := uuid.New(), uuid.New()

	testCases := []struct {
		name          string
		setupMock     func(*repositorymock.MockReservationWriteQueries, *reservation.Reservation, sqlc.DBTX)
		expectedError bool
		expectKind    infra.RepositoryErrorKind
	}{
		{
			name: "success: reservation and every line item inserted",
			setupMock: func(mock *repositorymock.MockReservationWriteQueries, res *reservation.Reservation, tx sqlc.DBTX) {
				gomock.InOrder(
					mock.EXPECT().CreateReservation(ctx, tx, gomock.Any()).DoAndReturn(
						func(_ context.Context, _ sqlc.DBTX, arg sqlc.CreateReservationParams) error {
							assert.Equal(t, res.ID(), arg.ID)
							assert.Equal(t, "active", arg.Status)
							assert.Equal(t, res.Stay().Start(), arg.CheckInAt.Time)
							return nil
						}),
					mock.EXPECT().CreateLineItem(ctx, tx, sqlc.CreateLineItemParams{
						ReservationID: res.ID(), RoomTypeID: roomA, Quantity: 2, UnitPriceCents: 12000,
					}).Return(nil),
					mock.EXPECT().CreateLineItem(ctx, tx, sqlc.CreateLineItemParams{
						ReservationID: res.ID(), RoomTypeID: roomB, Quantity: 1, UnitPriceCents: 8000,
					}).Return(nil),
				)
			},
		},
		{
			name: "error: database error occurs",
			setupMock: func(mock *repositorymock.MockReservationWriteQueries, _ *reservation.Reservation, tx sqlc.DBTX) {
				mock.EXPECT().CreateReservation(ctx, tx, gomock.Any()).Return(errors.New("database connection error"))
			},
			expectedError: true,
			expectKind:    infra.KindDBFailure,
		},
		{
			name: "error: capacity trigger refuses a line item",
			setupMock: func(mock *repositorymock.MockReservationWriteQueries, _ *reservation.Reservation, tx sqlc.DBTX) {
				full := &pgconn.PgError{Code: infra.PgCodeCapacityExceeded, Message: "room type capacity exceeded"}
				mock.EXPECT().CreateReservation(ctx, tx, gomock.Any()).Return(nil)
				mock.EXPECT().CreateLineItem(ctx, tx, gomock.Any()).Return(full)
			},
			expectedError: true,
			expectKind:    infra.KindConflict,
		},
		{
			name: "error: unknown room type",
			setupMock: func(mock *repositorymock.MockReservationWriteQueries, _ *reservation.Reservation, tx sqlc.DBTX) {
				fk := &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
				mock.EXPECT().CreateReservation(ctx, tx, gomock.Any()).Return(nil)
				mock.EXPECT().CreateLineItem(ctx, tx, gomock.Any()).Return(fk)
			},
			expectedError: true,
			expectKind:    infra.KindForeignKeyViolated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockReservationWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewReservationRepository(mockQueries, mockDB)

			res, err := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
				b.Items = []builder.LineItem{
					{RoomTypeID: roomA, Quantity: 2, UnitPriceCents: 12000},
					{RoomTypeID: roomB, Quantity: 1, UnitPriceCents: 8000},
				}
			}).BuildDomain()
			require.NoError(t, err)

			tc.setupMock(mockQueries, res, mockDB)

			actualError := repo.Create(ctx, res)

			if tc.expectedError {
				require.Error(t, actualError)
				assert.True(t, infra.IsKind(actualError, tc.expectKind), "expected kind [%v] but got [%T] (%v)", tc.expectKind, actualError, actualError)
			} else {
				assert.NoError(t, actualError)
			}
		})
	}
}

// =============================================================================
// Update Status Tests
// =============================================================================

func TestRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		affected      int64
		queryErr      error
		expectedError bool
		expectKind    infra.RepositoryErrorKind
	}{
		{name: "success: status updated", affected: 1},
		{name: "error: reservation not found", affected: 0, expectedError: true, expectKind: infra.KindNotFound},
		{name: "error: database error occurs", queryErr: errors.New("database connection error"), expectedError: true, expectKind: infra.KindDBFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockReservationWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewReservationRepository(mockQueries, mockDB)

			res, err := builder.NewReservationBuilder().BuildDomain()
			require.NoError(t, err)
			cancelledAt := time.Date(2030, 2, 2, 10, 0, 0, 0, time.UTC)
			require.True(t, res.Cancel(cancelledAt))

			mockQueries.EXPECT().UpdateReservationStatus(ctx, mockDB, gomock.Any()).DoAndReturn(
				func(_ context.Context, _ sqlc.DBTX, arg sqlc.UpdateReservationStatusParams) (int64, error) {
					assert.Equal(t, res.ID(), arg.ID)
					assert.Equal(t, "cancelled", arg.Status)
					assert.Equal(t, cancelledAt, arg.UpdatedAt.Time)
					return tc.affected, tc.queryErr
				})

			actualError := repo.UpdateStatus(ctx, res)

			if tc.expectedError {
				require.Error(t, actualError)
				assert.True(t, infra.IsKind(actualError, tc.expectKind))
			} else {
				assert.NoError(t, actualError)
			}
		})
	}
}

// =============================================================================
// Delete Reservation Tests
// =============================================================================

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name       string
		affected   int64
		queryErr   error
		expectKind infra.RepositoryErrorKind
	}{
		{name: "success: reservation deleted", affected: 1},
		{name: "error: reservation not found", affected: 0, expectKind: infra.KindNotFound},
		{name: "error: database error occurs", queryErr: errors.New("database connection error"), expectKind: infra.KindDBFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockReservationWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewReservationRepository(mockQueries, mockDB)

			id := uuid.New()
			mockQueries.EXPECT().DeleteReservation(ctx, mockDB, id).Return(tc.affected, tc.queryErr)

			actualError := repo.Delete(ctx, id)

			if tc.expectKind != "" {
				require.Error(t, actualError)
				assert.True(t, infra.IsKind(actualError, tc.expectKind))
			} else {
				assert.NoError(t, actualError)
			}
		})
	}
}

type mockDBTX struct{}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockDBTX) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("mockDBTX.QueryRow was called unexpectedly. Use sqlc mock instead.")
}
