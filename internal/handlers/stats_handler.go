package handlers

import (
	"context"
	"net/http"
	"strconv"

	"quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	Service *service.StatsService
}

func NewStatsHandler(s *service.StatsService) *StatsHandler {
	return &StatsHandler{Service: s}
}

func (h *StatsHandler) GetUserStats(c *gin.Context) {
	userID := c.Param("id")
	stats, err := h.Service.GetUserStats(context.Background(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RecomputeUserStats forces a full rebuild of a user's aggregates, the
// reconciliation path for any drift left by a failed post-submit update.
func (h *StatsHandler) RecomputeUserStats(c *gin.Context) {
	userID := c.Param("id")
	stats, err := h.Service.Recompute(context.Background(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *StatsHandler) GetLeaderboard(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	entries, err := h.Service.TopLeaderboard(context.Background(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
