package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trade-journal/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Analyze returns an LLM-written assessment of the user's current metrics.
func (h *ReportHandler) Analyze(c *gin.Context) {
	userID := CurrentUserID(c)

	filter, err := tradeFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := h.reportService.Analyze(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

// PerformanceReport serves the assembled markdown report as a download.
func (h *ReportHandler) PerformanceReport(c *gin.Context) {
	userID := CurrentUserID(c)

	filter, err := tradeFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportService.PerformanceReport(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("performance-report-%s.md", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report))
}
