//go:build unit

package response_test

import (
	"testing"
	"time"

	resdto "hotel-booking/internal/handler/dto/response"
	"hotel-booking/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.EquateEmpty(),
}

func TestFromReservationView(t *testing.T) {
	id, guestID, roomTypeID := uuid.New(), uuid.New(), uuid.New()
	created := time.Date(2030, 2, 1, 9, 0, 0, 0, time.UTC)

	t.Run("success: renders ids and instants and prices every night", func(t *testing.T) {
		view := &queries.ReservationView{
			ID:       id,
			GuestID:  guestID,
			Status:   "active",
			CheckIn:  time.Date(2030, 3, 1, 14, 0, 0, 0, time.UTC),
			CheckOut: time.Date(2030, 3, 4, 11, 0, 0, 0, time.UTC),
			Items: []queries.LineItemView{
				{RoomTypeID: roomTypeID, RoomTypeName: "Double", Quantity: 2, UnitPriceCents: 12000},
			},
			CreatedAt: created,
			UpdatedAt: created,
		}

		got, err := resdto.FromReservationView(view)
		require.NoError(t, err)

		want := &resdto.ReservationResponse{
			ID:       id.String(),
			GuestID:  guestID.String(),
			Status:   "active",
			CheckIn:  "2030-03-01T14:00:00Z",
			CheckOut: "2030-03-04T11:00:00Z",
			Nights:   3,
			Items: []resdto.LineItemResponse{
				{RoomTypeID: roomTypeID.String(), RoomTypeName: "Double", Quantity: 2, UnitPriceCents: 12000},
			},
			TotalCents: 2 * 12000 * 3,
			CreatedAt:  "2030-02-01T09:00:00Z",
			UpdatedAt:  "2030-02-01T09:00:00Z",
		}
		if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
			t.Errorf("ReservationResponse mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("success: list keeps order and cursor", func(t *testing.T) {
		items := []*queries.ReservationListItem{
			{ID: id, Status: "cancelled", CheckIn: created, CheckOut: created.Add(24 * time.Hour), TotalUnits: 2, CreatedAt: created},
		}
		got, err := resdto.FromReservationList(items, &queries.Cursor{After: "abc"})
		require.NoError(t, err)

		want := &resdto.ReservationListResponse{
			Items: []resdto.ReservationListItemResponse{{
				ID:         id.String(),
				Status:     "cancelled",
				CheckIn:    "2030-02-01T09:00:00Z",
				CheckOut:   "2030-02-02T09:00:00Z",
				TotalUnits: 2,
				CreatedAt:  "2030-02-01T09:00:00Z",
			}},
			NextCursor: "abc",
		}
		if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
			t.Errorf("ReservationListResponse mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("success: empty list renders an empty array", func(t *testing.T) {
		got, err := resdto.FromReservationList(nil, nil)
		require.NoError(t, err)
		require.NotNil(t, got.Items)
		require.Empty(t, got.NextCursor)
	})
}
