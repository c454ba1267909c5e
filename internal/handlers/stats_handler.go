package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"audit-service/internal/services"
)

// StatsHandler serves aggregated dashboard statistics
type StatsHandler struct {
	service *services.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(service *services.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Dashboard returns compliance and action statistics for the dashboard
// @Summary Dashboard statistics
// @Tags Stats
// @Produce json
// @Success 200 {object} services.DashboardStats
// @Router /api/v1/stats/dashboard [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
