package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trade-journal/internal/services"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Metrics recomputes and returns the dashboard summary for the user's
// trades, optionally filtered by account and date range.
func (h *AnalyticsHandler) Metrics(c *gin.Context) {
	userID := CurrentUserID(c)

	filter, err := tradeFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.analyticsService.Summary(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
