package reservation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seatflow/internal/api"
	"seatflow/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create reservation
// @Description  Reserves a seat for a bounded time window on a single day.
// @Tags         reservations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateReservationRequest  true  "Reservation"
// @Success      201   {object}  Reservation
// @Failure      400   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Failure      409   {object}  api.ErrorResponse
// @Router       /reservations [post]
func (h *Handler) Create(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// Update godoc
// @Summary      Update reservation time
// @Description  Moves an active reservation to a new date/time on the same seat.
// @Tags         reservations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reservationID  path      int                       true  "Reservation ID"
// @Param        body           body      UpdateReservationRequest  true  "New time"
// @Success      200            {object}  Reservation
// @Failure      400            {object}  api.ErrorResponse
// @Failure      403            {object}  api.ErrorResponse
// @Failure      404            {object}  api.ErrorResponse
// @Failure      409            {object}  api.ErrorResponse
// @Router       /reservations/{reservationID} [patch]
func (h *Handler) Update(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reservationID, err := strconv.Atoi(c.Param("reservationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.Update(c.Request.Context(), reservationID, userID, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Cancel godoc
// @Summary      Cancel reservation
// @Description  Cancels an active reservation of the current user, recording an optional reason.
// @Tags         reservations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reservationID  path      int                       true   "Reservation ID"
// @Param        body           body      CancelReservationRequest  false  "Reason"
// @Success      200            {object}  api.MessageResponse
// @Failure      403            {object}  api.ErrorResponse
// @Failure      404            {object}  api.ErrorResponse
// @Failure      409            {object}  api.ErrorResponse
// @Router       /reservations/{reservationID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reservationID, err := strconv.Atoi(c.Param("reservationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	var req CancelReservationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.service.Cancel(c.Request.Context(), reservationID, userID, req.Reason); err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Reservation cancelled successfully"})
}

// List godoc
// @Summary      List my reservations
// @Description  Returns the current user's reservations; scope=active (default) or scope=past.
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        scope  query    string  false  "active or past"
// @Success      200    {array}  ReservationWithDetails
// @Router       /reservations [get]
func (h *Handler) List(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	scope := c.DefaultQuery("scope", "active")

	var (
		list []ReservationWithDetails
		err  error
	)
	switch scope {
	case "active":
		list, err = h.service.ListActive(c.Request.Context(), userID)
	case "past":
		list, err = h.service.ListPast(c.Request.Context(), userID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "scope must be 'active' or 'past'"})
		return
	}
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// CompleteExpired godoc
// @Summary      Mark expired reservations completed
// @Description  Maintenance sweep; idempotent. Admin only.
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  CompleteExpiredResponse
// @Router       /admin/maintenance/complete-expired [post]
func (h *Handler) CompleteExpired(c *gin.Context) {
	completed, err := h.service.CompleteExpired(c.Request.Context())
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, CompleteExpiredResponse{Completed: completed})
}
