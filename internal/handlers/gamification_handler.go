package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trade-journal/internal/models"
	"trade-journal/internal/services"
)

type GamificationHandler struct {
	gamificationService *services.GamificationService
}

func NewGamificationHandler(gamificationService *services.GamificationService) *GamificationHandler {
	return &GamificationHandler{gamificationService: gamificationService}
}

func (h *GamificationHandler) GetLevel(c *gin.Context) {
	userID := CurrentUserID(c)

	level, err := h.gamificationService.GetLevel(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, level)
}

func (h *GamificationHandler) GetAchievements(c *gin.Context) {
	userID := CurrentUserID(c)

	achievements, err := h.gamificationService.GetAchievements(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

type DailyProgressRequest struct {
	Date            string `json:"date"` // YYYY-MM-DD, today when empty
	ProfitTargetMet bool   `json:"profitTargetMet"`
	RiskControlHeld bool   `json:"riskControlHeld"`
	NoOvertrading   bool   `json:"noOvertrading"`
}

// RecordDailyProgress upserts the discipline flags for one day, then
// re-evaluates achievements since the day-based streaks may have moved.
func (h *GamificationHandler) RecordDailyProgress(c *gin.Context) {
	userID := CurrentUserID(c)

	var req DailyProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		date = parsed
	}

	progress := models.DailyProgress{
		UserID:          userID,
		Date:            date,
		ProfitTargetMet: req.ProfitTargetMet,
		RiskControlHeld: req.RiskControlHeld,
		NoOvertrading:   req.NoOvertrading,
	}
	if err := h.gamificationService.RecordDailyProgress(c.Request.Context(), &progress); err != nil {
		respondError(c, err)
		return
	}

	unlocked, err := h.gamificationService.Evaluate(c.Request.Context(), userID)
	if err != nil {
		// The progress row is saved; evaluation can catch up later.
		unlocked = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"progress":      progress,
		"newlyUnlocked": unlocked,
	})
}
