package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hbuk-xyz/hbuk-server/internal/metrics"
)

type MetricsHandler struct {
	counters *metrics.Counters
	token    string
}

// NewMetricsHandler creates a new metrics handler. An empty token disables
// the endpoint entirely.
func NewMetricsHandler(counters *metrics.Counters, token string) *MetricsHandler {
	return &MetricsHandler{counters: counters, token: token}
}

// Metrics renders the operation counters as plaintext, gated by a shared
// token passed in a header or query parameter.
func (h *MetricsHandler) Metrics(c *gin.Context) {
	authorized := h.token != "" &&
		(c.GetHeader("X-Metrics-Token") == h.token || c.Query("token") == h.token)
	if !authorized {
		c.String(http.StatusForbidden, "forbidden")
		return
	}
	c.String(http.StatusOK, h.counters.Render())
}
