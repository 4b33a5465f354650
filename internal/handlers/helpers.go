package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trade-journal/internal/repositories"
)

// uintParam parses a numeric path parameter, responding 400 on failure.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}

// tradeFilterFromQuery builds a trade filter from account/from/to query
// parameters. Dates accept YYYY-MM-DD or RFC3339.
func tradeFilterFromQuery(c *gin.Context) (repositories.TradeFilter, error) {
	var filter repositories.TradeFilter
	if raw := c.Query("account"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filter, errors.New("invalid account parameter")
		}
		filter.AccountID = uint(v)
	}
	if raw := c.Query("from"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return filter, errors.New("invalid from date")
		}
		filter.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return filter, errors.New("invalid to date")
		}
		filter.To = t
	}
	return filter, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// respondError maps service/repository errors onto HTTP statuses. Not-found
// covers both missing and foreign records so ids do not leak existence.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
