package response

import (
	"hotel-booking/internal/usecase/queries"
)

type ConflictResponse struct {
	ReservationID string `json:"reservation_id"`
	Quantity      int    `json:"quantity"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
}

type AvailabilityResponse struct {
	RoomTypeID     string             `json:"room_type_id"`
	TotalUnits     int                `json:"total_units"`
	FreeUnits      int                `json:"free_units"`
	RequestedUnits int                `json:"requested_units"`
	Shortfall      int                `json:"shortfall"`
	Satisfiable    bool               `json:"satisfiable"`
	Conflicts      []ConflictResponse `json:"conflicts"`
}

func FromAvailabilityView(v *queries.AvailabilityView) (*AvailabilityResponse, error) {
	res := AvailabilityResponse{Conflicts: []ConflictResponse{}}
	if err := copyInto(&res, v); err != nil {
		return nil, err
	}
	if res.Conflicts == nil {
		res.Conflicts = []ConflictResponse{}
	}
	return &res, nil
}

type RoomTypeResponse struct {
	ID               string `json:"id"`
	HotelID          string `json:"hotel_id"`
	Name             string `json:"name"`
	TotalUnits       int    `json:"total_units"`
	NightlyRateCents int64  `json:"nightly_rate_cents"`
	CapacityPerUnit  int    `json:"capacity_per_unit"`
}

// InventoryItemResponse carries a display counter. Stale marks a counter that may lag
// behind recent bookings.
type InventoryItemResponse struct {
	RoomType    RoomTypeResponse `json:"room_type"`
	FreeUnits   int              `json:"free_units"`
	Stale       bool             `json:"stale"`
	RefreshedAt string           `json:"refreshed_at,omitempty"`
}

func FromInventory(items []*queries.InventoryItem) ([]InventoryItemResponse, error) {
	res := make([]InventoryItemResponse, 0, len(items))
	for _, it := range items {
		var out InventoryItemResponse
		if err := copyInto(&out, it); err != nil {
			return nil, err
		}
		res = append(res, out)
	}
	return res, nil
}
