package facility

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seatflow/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateFacility godoc
// @Summary      Create facility
// @Tags         facilities
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateFacilityRequest  true  "Facility"
// @Success      201   {object}  Facility
// @Router       /admin/facilities [post]
func (h *Handler) CreateFacility(c *gin.Context) {
	var req CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := h.service.CreateFacility(c.Request.Context(), req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, f)
}

// ListFacilities godoc
// @Summary      List facilities
// @Tags         facilities
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Facility
// @Router       /facilities [get]
func (h *Handler) ListFacilities(c *gin.Context) {
	facilities, err := h.service.GetAllFacilities(c.Request.Context())
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, facilities)
}

// GetFacility godoc
// @Summary      Get facility with its weekly calendar
// @Tags         facilities
// @Security     BearerAuth
// @Produce      json
// @Param        facilityID  path      int  true  "Facility ID"
// @Success      200         {object}  FacilityWithCalendar
// @Router       /facilities/{facilityID} [get]
func (h *Handler) GetFacility(c *gin.Context) {
	id, ok := pathID(c, "facilityID")
	if !ok {
		return
	}

	f, err := h.service.GetFacility(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, f)
}

// UpsertSchedule godoc
// @Summary      Set operating hours for one day of week
// @Tags         facilities
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        facilityID  path      int                    true  "Facility ID"
// @Param        body        body      UpsertScheduleRequest  true  "Schedule"
// @Success      200         {object}  schedule.DailySchedule
// @Router       /admin/facilities/{facilityID}/schedule [put]
func (h *Handler) UpsertSchedule(c *gin.Context) {
	id, ok := pathID(c, "facilityID")
	if !ok {
		return
	}

	var req UpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.service.UpsertSchedule(c.Request.Context(), id, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}

// CreateBlock godoc
// @Summary      Create block
// @Tags         facilities
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        facilityID  path      int                 true  "Facility ID"
// @Param        body        body      CreateBlockRequest  true  "Block"
// @Success      201         {object}  Block
// @Router       /admin/facilities/{facilityID}/blocks [post]
func (h *Handler) CreateBlock(c *gin.Context) {
	id, ok := pathID(c, "facilityID")
	if !ok {
		return
	}

	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.CreateBlock(c.Request.Context(), id, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ListBlocks godoc
// @Summary      List blocks of a facility
// @Tags         facilities
// @Security     BearerAuth
// @Produce      json
// @Param        facilityID  path     int  true  "Facility ID"
// @Success      200         {array}  Block
// @Router       /facilities/{facilityID}/blocks [get]
func (h *Handler) ListBlocks(c *gin.Context) {
	id, ok := pathID(c, "facilityID")
	if !ok {
		return
	}

	blocks, err := h.service.GetBlocks(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, blocks)
}

// CreateDesk godoc
// @Summary      Create desk with seats
// @Tags         facilities
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        blockID  path      int                true  "Block ID"
// @Param        body     body      CreateDeskRequest  true  "Desk"
// @Success      201      {object}  Desk
// @Router       /admin/blocks/{blockID}/desks [post]
func (h *Handler) CreateDesk(c *gin.Context) {
	id, ok := pathID(c, "blockID")
	if !ok {
		return
	}

	var req CreateDeskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.service.CreateDesk(c.Request.Context(), id, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, d)
}

// ListDesks godoc
// @Summary      List desks of a block
// @Tags         facilities
// @Security     BearerAuth
// @Produce      json
// @Param        blockID  path     int  true  "Block ID"
// @Success      200      {array}  Desk
// @Router       /blocks/{blockID}/desks [get]
func (h *Handler) ListDesks(c *gin.Context) {
	id, ok := pathID(c, "blockID")
	if !ok {
		return
	}

	desks, err := h.service.GetDesks(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, desks)
}

// ListSeats godoc
// @Summary      List seats of a desk
// @Tags         facilities
// @Security     BearerAuth
// @Produce      json
// @Param        deskID  path     int  true  "Desk ID"
// @Success      200     {array}  Seat
// @Router       /desks/{deskID}/seats [get]
func (h *Handler) ListSeats(c *gin.Context) {
	id, ok := pathID(c, "deskID")
	if !ok {
		return
	}

	seats, err := h.service.GetSeats(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, seats)
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
