package server

import (
	"net/http"

	"seatflow/internal/api"
	"seatflow/internal/metrics"
	"seatflow/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics(notifier *notify.Service) gin.HandlerFunc {
	handler := gin.WrapH(promhttp.Handler())
	return func(c *gin.Context) {
		if notifier != nil {
			metrics.SetEmailQueueLength(notifier.QueueLength(c.Request.Context()))
		}
		handler(c)
	}
}
