package api

import (
	"github.com/gin-gonic/gin"

	"seatflow/internal/apperr"
)

type ErrorResponse struct {
	Code  string `json:"code" example:"SEAT_CONFLICT"`
	Error string `json:"error" example:"seat is already reserved for this time"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Error writes a domain error as JSON with its mapped HTTP status.
func Error(c *gin.Context, err error) {
	e := apperr.FromError(err)
	c.JSON(e.Status, ErrorResponse{Code: e.Code, Error: e.Message})
}
