package api

import (
	"net/http"

	reqdto "hotel-booking/internal/handler/dto/request"
	resdto "hotel-booking/internal/handler/dto/response"
	"hotel-booking/internal/handler/httperr"
	"hotel-booking/internal/handler/middleware"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/commands"
	"hotel-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

var errForbiddenGuestFilter = errs.New("guest filter requires staff role")

type BookingHandler struct {
	cmds     commands.BookingCommands
	q        queries.ReservationQueries
	checkIn  string
	checkOut string
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.ReservationQueries, cfg config.BookingConfig) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q, checkIn: cfg.DefaultCheckIn, checkOut: cfg.DefaultCheckOut}
}

// @Summary Submit booking cart
// @Description Book every line item of the cart or none of them
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Key that makes retries return the first result"
// @Param request body reqdto.SubmitCartRequest true "Booking cart"
// @Success 201 {object} resdto.ReservationResponse
// @Success 200 {object} resdto.ReservationResponse "Replayed request"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) SubmitCart(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthorized, "Unauthorized", nil)
		return
	}

	var key *uuid.UUID
	if raw := c.GetHeader(headerIdempotencyKey); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Idempotency-Key must be a UUID", nil)
			return
		}
		key = &parsed
	}

	var req reqdto.SubmitCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	interval, err := req.ToInterval(h.checkIn, h.checkOut)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid stay interval", nil)
		return
	}

	result, err := h.cmds.SubmitCart(c.Request.Context(), req.ToInput(actor.ID, actor.Contact, interval, key))
	if err != nil {
		abortWithUsecaseError(c, err, "Booking failed")
		return
	}

	body, err := resdto.FromReservation(result.Reservation)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to render booking", nil)
		return
	}
	c.Header("Location", "/api/bookings/"+body.ID)
	if result.Replayed {
		c.Header(headerReplayed, "true")
		c.JSON(http.StatusOK, body)
		return
	}
	c.JSON(http.StatusCreated, body)
}

// @Summary Cancel booking
// @Description Cancel a booking. Cancelling twice succeeds without changes
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.CancelResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthorized, "Unauthorized", nil)
		return
	}

	result, err := h.cmds.Cancel(c.Request.Context(), id, actor)
	if err != nil {
		abortWithUsecaseError(c, err, "Cancel failed")
		return
	}
	body, err := resdto.FromReservation(result.Reservation)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to render booking", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.CancelResponse{ReservationResponse: *body, Changed: result.Changed})
}

// @Summary Get booking
// @Description Get a booking owned by the caller. Staff may read any booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthorized, "Unauthorized", nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to load booking")
		return
	}
	body, err := resdto.FromReservationView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to render booking", nil)
		return
	}
	c.JSON(http.StatusOK, body)
}

// @Summary List bookings
// @Description List the caller's bookings, newest first. Staff may pass guest_id
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 200)"
// @Param after query string false "Cursor from the previous page"
// @Param guest_id query string false "Guest to list (staff only)"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthorized, "Unauthorized", nil)
		return
	}
	var req reqdto.ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}

	guestID := actor.ID
	if req.GuestID != "" {
		requested, err := uuid.Parse(req.GuestID)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid guest_id", nil)
			return
		}
		if !actor.CanAccess(requested) {
			httperr.AbortWithError(c, http.StatusForbidden, errForbiddenGuestFilter, "Insufficient permissions", nil)
			return
		}
		guestID = requested
	}

	var after *queries.Cursor
	if req.After != "" {
		after = &queries.Cursor{After: req.After}
	}
	items, next, err := h.q.ListByGuest(c.Request.Context(), guestID, after, req.Limit)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to list bookings")
		return
	}
	body, err := resdto.FromReservationList(items, next)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to render bookings", nil)
		return
	}
	c.JSON(http.StatusOK, body)
}

// @Summary Purge booking
// @Description Physically delete a booking (admin only)
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/bookings/{id} [delete]
func (h *BookingHandler) Purge(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	if err := h.cmds.Purge(c.Request.Context(), id); err != nil {
		abortWithUsecaseError(c, err, "Purge failed")
		return
	}
	c.Status(http.StatusNoContent)
}
