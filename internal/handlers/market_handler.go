package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trade-journal/internal/services"
)

type MarketHandler struct {
	marketService *services.MarketDataService
}

func NewMarketHandler(marketService *services.MarketDataService) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// GetQuote returns the latest price for one symbol.
func (h *MarketHandler) GetQuote(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	quote, err := h.marketService.GetQuote(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quote)
}

// GetNews returns recent market headlines.
func (h *MarketHandler) GetNews(c *gin.Context) {
	topics := c.DefaultQuery("topics", "forex")

	news, err := h.marketService.GetNews(c.Request.Context(), topics)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"news": news})
}
