package shared

import (
	"hotel-booking/internal/domain/guest"

	"github.com/google/uuid"
)

// Actor is the authenticated caller as asserted by the identity service.
type Actor struct {
	ID      uuid.UUID
	Role    guest.Role
	Contact string
}

// CanAccess reports whether the actor may read or cancel a reservation owned by ownerID.
func (a Actor) CanAccess(ownerID uuid.UUID) bool {
	return a.ID == ownerID || a.Role.CanSeeAllBookings()
}
