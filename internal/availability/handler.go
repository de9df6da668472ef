package availability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"seatflow/internal/api"
	"seatflow/internal/schedule"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// BlockAvailability godoc
// @Summary      Block occupancy rollup
// @Description  Occupied vs total seats per block of a facility for an interval.
// @Tags         availability
// @Security     BearerAuth
// @Produce      json
// @Param        facilityID  path     int     true  "Facility ID"
// @Param        date        query    string  true  "Date (YYYY-MM-DD)"
// @Param        start       query    string  true  "Start (HH:MM)"
// @Param        end         query    string  true  "End (HH:MM)"
// @Success      200         {array}  UnitAvailability
// @Router       /facilities/{facilityID}/availability [get]
func (h *Handler) BlockAvailability(c *gin.Context) {
	id, date, start, end, ok := queryWindow(c, "facilityID")
	if !ok {
		return
	}

	result, err := h.service.BlockAvailability(c.Request.Context(), id, date, start, end)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeskAvailability godoc
// @Summary      Desk occupancy rollup
// @Description  Occupied vs total seats per desk of a block for an interval.
// @Tags         availability
// @Security     BearerAuth
// @Produce      json
// @Param        blockID  path     int     true  "Block ID"
// @Param        date     query    string  true  "Date (YYYY-MM-DD)"
// @Param        start    query    string  true  "Start (HH:MM)"
// @Param        end      query    string  true  "End (HH:MM)"
// @Success      200      {array}  UnitAvailability
// @Router       /blocks/{blockID}/availability [get]
func (h *Handler) DeskAvailability(c *gin.Context) {
	id, date, start, end, ok := queryWindow(c, "blockID")
	if !ok {
		return
	}

	result, err := h.service.DeskAvailability(c.Request.Context(), id, date, start, end)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// OccupiedSeats godoc
// @Summary      Occupied seat ids of a desk
// @Description  Seats of the desk holding an active reservation overlapping the interval.
// @Tags         availability
// @Security     BearerAuth
// @Produce      json
// @Param        deskID  path      int     true  "Desk ID"
// @Param        date    query     string  true  "Date (YYYY-MM-DD)"
// @Param        start   query     string  true  "Start (HH:MM)"
// @Param        end     query     string  true  "End (HH:MM)"
// @Success      200     {object}  OccupiedSeatsResponse
// @Router       /desks/{deskID}/occupied [get]
func (h *Handler) OccupiedSeats(c *gin.Context) {
	id, date, start, end, ok := queryWindow(c, "deskID")
	if !ok {
		return
	}

	seatIDs, err := h.service.OccupiedSeats(c.Request.Context(), id, date, start, end)
	if err != nil {
		api.Error(c, err)
		return
	}

	if seatIDs == nil {
		seatIDs = []int{}
	}
	c.JSON(http.StatusOK, OccupiedSeatsResponse{DeskID: id, SeatIDs: seatIDs})
}

func queryWindow(c *gin.Context, idParam string) (id int, date time.Time, start, end schedule.TimeOfDay, ok bool) {
	id, err := strconv.Atoi(c.Param(idParam))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + idParam})
		return 0, time.Time{}, 0, 0, false
	}

	date, err = time.ParseInLocation("2006-01-02", c.Query("date"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return 0, time.Time{}, 0, 0, false
	}

	start, err = schedule.ParseTimeOfDay(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start, expected HH:MM"})
		return 0, time.Time{}, 0, 0, false
	}

	end, err = schedule.ParseTimeOfDay(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end, expected HH:MM"})
		return 0, time.Time{}, 0, 0, false
	}

	if !start.Before(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be before end"})
		return 0, time.Time{}, 0, 0, false
	}

	return id, date, start, end, true
}
