package suggestion

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"seatflow/internal/api"
	"seatflow/internal/apperr"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// BestSlot godoc
// @Summary Suggest the quietest 2-hour slot
// @Description Returns the least-reserved contiguous two hour window of the requested day
// @Tags suggestion
// @Produce json
// @Param facilityID path int true "Facility ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} Suggestion
// @Failure 404 {object} api.ErrorResponse
// @Router /facilities/{facilityID}/suggestion [get]
func (h *Handler) BestSlot(c *gin.Context) {
	facilityID, err := strconv.Atoi(c.Param("facilityID"))
	if err != nil {
		api.Error(c, apperr.ErrValidation.WithMessage("invalid facility id"))
		return
	}

	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.Local)
	if err != nil {
		api.Error(c, apperr.ErrValidation.WithMessage("date must be YYYY-MM-DD"))
		return
	}

	sug, err := h.service.BestSlot(c.Request.Context(), facilityID, date)
	if err != nil {
		api.Error(c, err)
		return
	}
	if sug == nil {
		api.Error(c, apperr.ErrNotFound.WithMessage("no suitable slot for this day"))
		return
	}

	c.JSON(http.StatusOK, sug)
}
