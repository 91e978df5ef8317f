package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"carwash-backend/internal/istdate"
	"carwash-backend/internal/parse"
	"carwash-backend/internal/store"
)

type completeWashRequest struct {
	VehicleID    int64  `json:"vehicleId"`
	WasherID     int64  `json:"washerId"`
	WashDate     string `json:"washDate"`
	Notes        string `json:"notes"`
	ConfirmEarly bool   `json:"confirmEarly"`
}

// CompletePending handles POST /customer/:id/complete-pending.
func (h *Handler) CompletePending(c *gin.Context) {
	customerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req completeWashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.completeWash(c, store.CompleteWashRequest{
		VehicleID:    req.VehicleID,
		CustomerID:   customerID,
		WasherID:     req.WasherID,
		WashDate:     req.WashDate,
		Notes:        req.Notes,
		ConfirmEarly: req.ConfirmEarly,
	})
}

type legacyCompleteWashRequest struct {
	CustomerID int64 `json:"customerId" binding:"required"`
	completeWashRequest
}

// CompleteWashLegacy handles POST /customer/complete-wash for single-vehicle
// customers.
func (h *Handler) CompleteWashLegacy(c *gin.Context) {
	var req legacyCompleteWashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerId is required"})
		return
	}
	h.completeWash(c, store.CompleteWashRequest{
		CustomerID:   req.CustomerID,
		WasherID:     req.WasherID,
		WashDate:     req.WashDate,
		Notes:        req.Notes,
		ConfirmEarly: req.ConfirmEarly,
	})
}

// completeWash runs the shared completion path. The early-completion guard
// surfaces as 409 so clients can put up the confirmation prompt and re-send
// with confirmEarly set; nothing has been written at that point.
func (h *Handler) completeWash(c *gin.Context, req store.CompleteWashRequest) {
	result, err := h.store.CompleteWash(c.Request.Context(), req)
	switch {
	case errors.Is(err, store.ErrEarlyWashConfirmation):
		c.JSON(http.StatusConflict, gin.H{
			"error":                "selected date is an upcoming washing day",
			"confirmationRequired": true,
		})
	case errors.Is(err, store.ErrNoVehicle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.notifyWashed(result.AssignmentID)
		c.JSON(http.StatusOK, result)
	}
}

// WashHistory handles GET /customer/:id/wash-history?month=YYYY-MM.
func (h *Handler) WashHistory(c *gin.Context) {
	customerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	year, month, ok := monthQuery(c)
	if !ok {
		return
	}

	logs, err := h.store.WashHistory(c.Request.Context(), customerID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// PendingWashes handles GET /customer/:id/pending-washes?month=YYYY-MM.
func (h *Handler) PendingWashes(c *gin.Context) {
	customerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	year, month, ok := monthQuery(c)
	if !ok {
		return
	}

	pending, err := h.store.PendingWashes(c.Request.Context(), customerID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pending)
}

// monthQuery reads the "month=YYYY-MM" selector, defaulting to the current
// IST month.
func monthQuery(c *gin.Context) (int, time.Month, bool) {
	selector := c.Query("month")
	if selector == "" {
		now := istdate.Now()
		return now.Year(), now.Month(), true
	}
	year, month, err := parse.Month(selector)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid month, expected YYYY-MM"})
		return 0, 0, false
	}
	return year, month, true
}
