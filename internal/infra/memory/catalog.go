package memory

import (
	"encoding/json"
	"io"

	"hotel-booking/internal/domain/roomtype"
	"hotel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type catalogFile struct {
	Hotels []struct {
		ID        uuid.UUID `json:"id"`
		Name      string    `json:"name"`
		RoomTypes []struct {
			ID               uuid.UUID `json:"id"`
			Name             string    `json:"name"`
			TotalUnits       int       `json:"total_units"`
			NightlyRateCents int64     `json:"nightly_rate_cents"`
			CapacityPerUnit  int       `json:"capacity_per_unit"`
		} `json:"room_types"`
	} `json:"hotels"`
}

// LoadCatalog registers the hotels and room types of a JSON catalog.
// Nothing is registered when any room type is invalid.
func (s *Store) LoadCatalog(r io.Reader) (int, error) {
	var file catalogFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return 0, errs.Wrap(err, "decode catalog")
	}

	var roomTypes []*roomtype.RoomType
	for _, h := range file.Hotels {
		for _, rt := range h.RoomTypes {
			parsed, err := roomtype.New(rt.ID, h.ID, rt.Name, rt.TotalUnits, rt.NightlyRateCents, rt.CapacityPerUnit)
			if err != nil {
				return 0, errs.Wrapf(err, "room type %s", rt.ID)
			}
			roomTypes = append(roomTypes, parsed)
		}
	}

	for _, h := range file.Hotels {
		s.AddHotel(h.ID, h.Name)
	}
	for _, rt := range roomTypes {
		s.AddRoomType(rt)
	}
	return len(roomTypes), nil
}
