package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trade-journal/internal/models"
	"trade-journal/internal/services"
)

type TradeHandler struct {
	tradeService *services.TradeService
}

func NewTradeHandler(tradeService *services.TradeService) *TradeHandler {
	return &TradeHandler{tradeService: tradeService}
}

// TradeRequest carries a manual trade entry or edit. Close fields may be
// omitted for positions that are still open.
type TradeRequest struct {
	AccountID   uint       `json:"accountId" binding:"required"`
	Ticket      string     `json:"ticket"`
	Symbol      string     `json:"symbol" binding:"required"`
	Direction   string     `json:"direction" binding:"required"`
	Lots        float64    `json:"lots"`
	Volume      float64    `json:"volume"`
	OpenPrice   float64    `json:"openPrice"`
	OpenTime    time.Time  `json:"openTime" binding:"required"`
	ClosePrice  *float64   `json:"closePrice"`
	CloseTime   *time.Time `json:"closeTime"`
	Profit      *float64   `json:"profit"`
	Commission  float64    `json:"commission"`
	Swap        float64    `json:"swap"`
	StopLoss    *float64   `json:"stopLoss"`
	TakeProfit  *float64   `json:"takeProfit"`
	Pips        *float64   `json:"pips"`
	CloseReason string     `json:"closeReason"`
}

func (r *TradeRequest) toModel() models.Trade {
	return models.Trade{
		AccountID:   r.AccountID,
		Ticket:      r.Ticket,
		Symbol:      r.Symbol,
		Direction:   r.Direction,
		Lots:        r.Lots,
		Volume:      r.Volume,
		OpenPrice:   r.OpenPrice,
		OpenTime:    r.OpenTime,
		ClosePrice:  r.ClosePrice,
		CloseTime:   r.CloseTime,
		Profit:      r.Profit,
		Commission:  r.Commission,
		Swap:        r.Swap,
		StopLoss:    r.StopLoss,
		TakeProfit:  r.TakeProfit,
		Pips:        r.Pips,
		CloseReason: r.CloseReason,
	}
}

func (h *TradeHandler) Create(c *gin.Context) {
	userID := CurrentUserID(c)

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trade := req.toModel()
	if err := h.tradeService.Create(c.Request.Context(), userID, &trade); err != nil {
		if errors.Is(err, services.ErrInvalidDirection) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trade": trade})
}

func (h *TradeHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)

	filter, err := tradeFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trades, err := h.tradeService.List(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trades": trades})
}

// Recent returns the newest trades and the total count for the dashboard's
// activity panel.
func (h *TradeHandler) Recent(c *gin.Context) {
	userID := CurrentUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	trades, total, err := h.tradeService.Recent(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trades": trades, "total": total})
}

func (h *TradeHandler) Get(c *gin.Context) {
	userID := CurrentUserID(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	trade, err := h.tradeService.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trade": trade})
}

func (h *TradeHandler) Update(c *gin.Context) {
	userID := CurrentUserID(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trade := req.toModel()
	trade.ID = id
	if err := h.tradeService.Update(c.Request.Context(), userID, &trade); err != nil {
		if errors.Is(err, services.ErrInvalidDirection) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trade": trade})
}

func (h *TradeHandler) Delete(c *gin.Context) {
	userID := CurrentUserID(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.tradeService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "trade deleted"})
}

// Import receives a multipart CSV upload and loads it into an account.
func (h *TradeHandler) Import(c *gin.Context) {
	userID := CurrentUserID(c)

	accountID, err := strconv.ParseUint(c.PostForm("accountId"), 10, 32)
	if err != nil || accountID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid accountId"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload"})
		return
	}
	defer file.Close()

	report, err := h.tradeService.Import(c.Request.Context(), userID, uint(accountID), file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
