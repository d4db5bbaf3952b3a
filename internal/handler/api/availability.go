package api

import (
	"net/http"

	reqdto "hotel-booking/internal/handler/dto/request"
	resdto "hotel-booking/internal/handler/dto/response"
	"hotel-booking/internal/handler/httperr"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availability queries.AvailabilityQueries
	inventory    queries.InventoryQueries
	checkIn      string
	checkOut     string
}

func NewAvailabilityHandler(availability queries.AvailabilityQueries, inventory queries.InventoryQueries, cfg config.BookingConfig) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		inventory:    inventory,
		checkIn:      cfg.DefaultCheckIn,
		checkOut:     cfg.DefaultCheckOut,
	}
}

// @Summary Check availability
// @Description Free units of a room type over a stay, computed from committed bookings
// @Tags availability
// @Produce json
// @Param id path string true "Room type ID"
// @Param check_in_date query string true "Check-in date (YYYY-MM-DD)"
// @Param check_out_date query string true "Check-out date (YYYY-MM-DD)"
// @Param check_in_time query string false "Check-in time (HH:MM)"
// @Param check_out_time query string false "Check-out time (HH:MM)"
// @Param quantity query int false "Requested units (default 1)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /room-types/{id}/availability [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	var req reqdto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	interval, err := req.ToInterval(h.checkIn, h.checkOut)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid stay interval", nil)
		return
	}

	view, err := h.availability.Check(c.Request.Context(), id, interval, req.RequestedQuantity())
	if err != nil {
		abortWithUsecaseError(c, err, "Availability check failed")
		return
	}
	body, err := resdto.FromAvailabilityView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to render availability", nil)
		return
	}
	c.JSON(http.StatusOK, body)
}

// @Summary Hotel inventory
// @Description Room types of a hotel with an "available tonight" display counter
// @Tags availability
// @Produce json
// @Param id path string true "Hotel ID"
// @Success 200 {array} resdto.InventoryItemResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /hotels/{id}/inventory [get]
func (h *AvailabilityHandler) Inventory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	items, err := h.inventory.HotelInventory(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to load inventory")
		return
	}
	body, err := resdto.FromInventory(items)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to render inventory", nil)
		return
	}
	c.JSON(http.StatusOK, body)
}
