package response

import (
	"time"

	"hotel-booking/internal/domain/reservation"
	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// copyOption renders ids as strings and instants as RFC 3339.
var copyOption = copier.Option{
	DeepCopy: true,
	Converters: []copier.TypeConverter{
		{
			SrcType: uuid.UUID{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				id, ok := src.(uuid.UUID)
				if !ok {
					return nil, errs.Newf("expected uuid.UUID, got %T", src)
				}
				return id.String(), nil
			},
		},
		{
			SrcType: time.Time{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				t, ok := src.(time.Time)
				if !ok {
					return nil, errs.Newf("expected time.Time, got %T", src)
				}
				if t.IsZero() {
					return "", nil
				}
				return t.Format(time.RFC3339), nil
			},
		},
	},
}

func copyInto(dst, src any) error {
	if err := copier.CopyWithOption(dst, src, copyOption); err != nil {
		return errs.Wrap(err, "map response")
	}
	return nil
}

type LineItemResponse struct {
	RoomTypeID     string `json:"room_type_id"`
	RoomTypeName   string `json:"room_type_name,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type ReservationResponse struct {
	ID         string             `json:"id"`
	GuestID    string             `json:"guest_id"`
	Status     string             `json:"status"`
	CheckIn    string             `json:"check_in"`
	CheckOut   string             `json:"check_out"`
	Nights     int                `json:"nights"`
	Items      []LineItemResponse `json:"items"`
	TotalCents int64              `json:"total_cents"`
	CreatedAt  string             `json:"created_at"`
	UpdatedAt  string             `json:"updated_at"`
}

func FromReservationView(v *queries.ReservationView) (*ReservationResponse, error) {
	var res ReservationResponse
	if err := copyInto(&res, v); err != nil {
		return nil, err
	}
	if interval, err := stay.FromTimestamps(v.CheckIn, v.CheckOut); err == nil {
		res.Nights = interval.Nights()
	}
	for _, it := range v.Items {
		res.TotalCents += int64(it.Quantity) * it.UnitPriceCents * int64(res.Nights)
	}
	return &res, nil
}

// FromReservation renders a freshly written aggregate. Room type names are not loaded.
func FromReservation(r *reservation.Reservation) (*ReservationResponse, error) {
	items := make([]queries.LineItemView, 0, len(r.LineItems()))
	for _, it := range r.LineItems() {
		items = append(items, queries.LineItemView{
			RoomTypeID:     it.RoomTypeID(),
			Quantity:       it.Quantity(),
			UnitPriceCents: it.UnitPriceCents(),
		})
	}
	return FromReservationView(&queries.ReservationView{
		ID:        r.ID(),
		GuestID:   r.GuestID(),
		Status:    r.Status().String(),
		CheckIn:   r.Stay().Start(),
		CheckOut:  r.Stay().End(),
		Items:     items,
		CreatedAt: r.CreatedAt(),
		UpdatedAt: r.UpdatedAt(),
	})
}

type CancelResponse struct {
	ReservationResponse
	// Changed is false when the reservation had already been cancelled.
	Changed bool `json:"changed"`
}

type ReservationListItemResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	TotalUnits int    `json:"total_units"`
	CreatedAt  string `json:"created_at"`
}

type ReservationListResponse struct {
	Items      []ReservationListItemResponse `json:"items"`
	NextCursor string                        `json:"next_cursor,omitempty"`
}

func FromReservationList(items []*queries.ReservationListItem, next *queries.Cursor) (*ReservationListResponse, error) {
	res := &ReservationListResponse{Items: make([]ReservationListItemResponse, 0, len(items))}
	for _, it := range items {
		var out ReservationListItemResponse
		if err := copyInto(&out, it); err != nil {
			return nil, err
		}
		res.Items = append(res.Items, out)
	}
	if next != nil {
		res.NextCursor = next.After
	}
	return res, nil
}
