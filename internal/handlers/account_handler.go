package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trade-journal/internal/models"
	"trade-journal/internal/services"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

type AccountRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=100"`
	Currency       string  `json:"currency"`
	InitialBalance float64 `json:"initialBalance"`
}

func (h *AccountHandler) Create(c *gin.Context) {
	userID := CurrentUserID(c)

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	account := models.Account{
		Name:           req.Name,
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
	}
	if err := h.accountService.Create(c.Request.Context(), userID, &account); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

func (h *AccountHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)

	accounts, err := h.accountService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *AccountHandler) Get(c *gin.Context) {
	userID := CurrentUserID(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	account, err := h.accountService.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

func (h *AccountHandler) Update(c *gin.Context) {
	userID := CurrentUserID(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account := models.Account{
		ID:             id,
		Name:           req.Name,
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
	}
	if err := h.accountService.Update(c.Request.Context(), userID, &account); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// Activate makes this the user's single active account.
func (h *AccountHandler) Activate(c *gin.Context) {
	userID := CurrentUserID(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.Activate(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account activated"})
}

func (h *AccountHandler) Delete(c *gin.Context) {
	userID := CurrentUserID(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
