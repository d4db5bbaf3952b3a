package api

import (
	"net/http"
	"strconv"

	"hotel-booking/internal/domain/stay"
	"hotel-booking/internal/handler/httperr"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/commands"
	"hotel-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// retryAfterSeconds is advertised when a room type stayed busy past the lock timeout.
const retryAfterSeconds = 1

var errUnauthorized = errs.New("missing actor")

// abortWithUsecaseError maps command and query errors to HTTP statuses.
func abortWithUsecaseError(c *gin.Context, err error, fallbackMsg string) {
	var (
		rejection *commands.CapacityRejection
		occupancy *commands.OccupancyShortfall
	)
	switch {
	case errs.As(err, &rejection):
		httperr.AbortWithError(c, http.StatusConflict, err, "Insufficient capacity", gin.H{"shortfalls": rejection.Shortfalls})
	case errs.As(err, &occupancy):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Insufficient occupancy",
			gin.H{"guests": occupancy.Guests, "capacity": occupancy.Capacity})
	case errs.Is(err, commands.ErrConcurrencyContention):
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Room type is busy, retry the request", nil)
	case errs.Is(err, commands.ErrIdempotencyKeyReused):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Idempotency key reused with a different request", nil)
	case errs.Is(err, commands.ErrInvalidInterval),
		errs.Is(err, queries.ErrInvalidInterval),
		errs.Is(err, stay.ErrInvalidInterval):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid stay interval", nil)
	case errs.Is(err, commands.ErrInvalidQuantity), errs.Is(err, queries.ErrInvalidQuantity):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid quantity", nil)
	case errs.Is(err, queries.ErrInvalidCursor):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)
	case errs.Is(err, commands.ErrRoomTypeNotFound), errs.Is(err, queries.ErrRoomTypeNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Room type not found", nil)
	case errs.Is(err, commands.ErrReservationNotFound), errs.Is(err, queries.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errs.Is(err, queries.ErrHotelNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Hotel not found", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, fallbackMsg, nil)
	}
}
