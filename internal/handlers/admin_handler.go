package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trade-journal/internal/models"
	"trade-journal/internal/services"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.adminService.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetUserActive suspends or reinstates a user account.
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.SetUserActive(c.Request.Context(), id, *req.Active); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

type PromoCodeRequest struct {
	Code           string `json:"code" binding:"required,min=3,max=50"`
	PercentOff     int    `json:"percentOff" binding:"required,min=1,max=100"`
	MaxRedemptions int    `json:"maxRedemptions"`
	ExpiresAt      string `json:"expiresAt"` // YYYY-MM-DD, optional
}

func (h *AdminHandler) CreatePromoCode(c *gin.Context) {
	var req PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	promo := models.PromoCode{
		Code:           req.Code,
		PercentOff:     req.PercentOff,
		MaxRedemptions: req.MaxRedemptions,
		Active:         true,
	}
	if req.ExpiresAt != "" {
		expires, err := time.Parse("2006-01-02", req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiresAt"})
			return
		}
		promo.ExpiresAt = &expires
	}

	if err := h.adminService.CreatePromoCode(c.Request.Context(), &promo); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"promoCode": promo})
}

func (h *AdminHandler) ListPromoCodes(c *gin.Context) {
	codes, err := h.adminService.ListPromoCodes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"promoCodes": codes})
}

func (h *AdminHandler) DeletePromoCode(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeletePromoCode(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "promo code deleted"})
}
