package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"trade-journal/internal/payments"
	"trade-journal/internal/services"
)

type BillingHandler struct {
	billingService *services.BillingService
	client         *payments.Client
}

func NewBillingHandler(billingService *services.BillingService, client *payments.Client) *BillingHandler {
	return &BillingHandler{billingService: billingService, client: client}
}

type SubscribeRequest struct {
	Plan      string `json:"plan" binding:"required"`
	PromoCode string `json:"promoCode"`
}

// Subscribe creates a hosted checkout session and returns its URL.
func (h *BillingHandler) Subscribe(c *gin.Context) {
	userID := CurrentUserID(c)

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.billingService.Subscribe(c.Request.Context(), userID, req.Plan, req.PromoCode)
	if err != nil {
		if errors.Is(err, services.ErrPromoNotRedeemable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkoutUrl": session.URL})
}

// GetSubscription returns the user's mirrored subscription state.
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	userID := CurrentUserID(c)

	sub, err := h.billingService.GetSubscription(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// Webhook receives provider events. The signature check runs before any
// parsing; unverified payloads are rejected outright.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
		return
	}

	if !h.client.VerifySignature(payload, c.GetHeader("X-Webhook-Signature")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	event, err := h.client.ParseEvent(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.billingService.HandleEvent(c.Request.Context(), event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
