package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"carwash-backend/internal/istdate"
	"carwash-backend/internal/model"
	"carwash-backend/internal/parse"
	"carwash-backend/internal/rules"
	"carwash-backend/internal/store"
)

// GetWashers handles GET /washer/washer.
func (h *Handler) GetWashers(c *gin.Context) {
	washers, err := h.store.ListWashers(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve washers"})
		return
	}
	c.JSON(http.StatusOK, washers)
}

type addWasherRequest struct {
	Name      string `json:"name" binding:"required"`
	MobileNo  string `json:"mobileNo" binding:"required"`
	Apartment string `json:"apartment"`
}

// AddWasher handles POST /washer/addwasher.
func (h *Handler) AddWasher(c *gin.Context) {
	var req addWasherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !parse.ValidMobile(req.MobileNo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": gin.H{"mobileNo": "mobile number must be 10 digits"}})
		return
	}

	washer := &model.Washer{Name: req.Name, MobileNo: req.MobileNo, Apartment: req.Apartment}
	if err := h.store.CreateWasher(c.Request.Context(), washer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, washer)
}

// WasherDashboard handles GET /washer/dashboard/:washerId?date=&apartment=&carType=.
// The date accepts "today", "all" or a concrete YYYY-MM-DD; all filtering is
// applied here so clients render the list verbatim.
func (h *Handler) WasherDashboard(c *gin.Context) {
	washerID, err := strconv.ParseInt(c.Param("washerId"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid washer ID"})
		return
	}

	date := c.DefaultQuery("date", rules.DateToday)
	assignments, err := h.store.Dashboard(
		c.Request.Context(),
		washerID,
		date,
		c.Query("apartment"),
		c.Query("carType"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// CancelWashLog handles POST /washlog/:id/cancel.
func (h *Handler) CancelWashLog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.store.CancelWashLog(c.Request.Context(), id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "wash log not found"})
	case errors.Is(err, store.ErrNotCancellable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusOK)
	}
}

// WasherLogs handles GET /washlog/washer/:washerId?month=&year=.
func (h *Handler) WasherLogs(c *gin.Context) {
	washerID, err := strconv.ParseInt(c.Param("washerId"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid washer ID"})
		return
	}

	year, month, ok := monthYearQuery(c)
	if !ok {
		return
	}

	logs, err := h.store.WasherLogs(c.Request.Context(), washerID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// monthYearQuery reads separate numeric month= and year= params, defaulting
// to the current IST month.
func monthYearQuery(c *gin.Context) (int, time.Month, bool) {
	now := istdate.Now()
	year, month := now.Year(), int(now.Month())

	if y := c.Query("year"); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil || n < 2000 || n > 3000 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return 0, 0, false
		}
		year = n
	}
	if m := c.Query("month"); m != "" {
		n, err := strconv.Atoi(m)
		if err != nil || n < 1 || n > 12 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return 0, 0, false
		}
		month = n
	}
	return year, time.Month(month), true
}
