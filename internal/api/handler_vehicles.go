package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"carwash-backend/internal/model"
	"carwash-backend/internal/parse"
	"carwash-backend/internal/store"
)

// AddVehicle handles POST /customer/:id/vehicles.
func (h *Handler) AddVehicle(c *gin.Context) {
	customerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicleNo, err := parse.NormalizeVehicleNo(req.VehicleNo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle := &model.Vehicle{
		CustomerID:      customerID,
		VehicleNo:       vehicleNo,
		CarModel:        req.CarModel,
		CarType:         req.CarType,
		PackageName:     req.PackageName,
		ScheduleType:    req.ScheduleType,
		WashingDays:     req.WashingDays,
		WashingDayNames: req.WashingDayNames,
	}
	if err := h.store.AddVehicle(c.Request.Context(), vehicle); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidWashingDays):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case isDuplicateErr(err):
			c.JSON(http.StatusConflict, gin.H{"error": "vehicle number already registered"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

// UpdateVehicle handles PUT /customer/:id/vehicles/:vehicleId.
func (h *Handler) UpdateVehicle(c *gin.Context) {
	customerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	vehicleID, ok := pathID(c, "vehicleId")
	if !ok {
		return
	}

	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicleNo, err := parse.NormalizeVehicleNo(req.VehicleNo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle := &model.Vehicle{
		ID:              vehicleID,
		CustomerID:      customerID,
		VehicleNo:       vehicleNo,
		CarModel:        req.CarModel,
		CarType:         req.CarType,
		ScheduleType:    req.ScheduleType,
		WashingDays:     req.WashingDays,
		WashingDayNames: req.WashingDayNames,
	}
	err = h.store.UpdateVehicle(c.Request.Context(), vehicle)
	switch {
	case errors.Is(err, store.ErrInvalidWashingDays):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, vehicle)
	}
}

type startPackageRequest struct {
	PackageID int64  `json:"packageId" binding:"required"`
	StartDate string `json:"startDate"`
}

// StartPackage handles POST /customer/:id/vehicles/:vehicleId/start-package.
func (h *Handler) StartPackage(c *gin.Context) {
	customerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	vehicleID, ok := pathID(c, "vehicleId")
	if !ok {
		return
	}

	var req startPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "package is required"})
		return
	}

	err := h.store.StartPackage(c.Request.Context(), customerID, vehicleID, req.PackageID, req.StartDate)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle or package not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

type allocateWasherRequest struct {
	WasherID   int64 `json:"washerId" binding:"required"`
	CustomerID int64 `json:"customerId"` // legacy body-level target
}

// AllocateWasher handles PUT /customer/:id/vehicles/:vehicleId/allocate-washer.
func (h *Handler) AllocateWasher(c *gin.Context) {
	customerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	vehicleID, ok := pathID(c, "vehicleId")
	if !ok {
		return
	}
	h.allocateWasher(c, customerID, vehicleID)
}

// AllocateWasherLegacy handles PUT /customer/allocate-washer, where the
// customer is named in the body and owns a single vehicle.
func (h *Handler) AllocateWasherLegacy(c *gin.Context) {
	var req allocateWasherRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CustomerID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerId and washerId are required"})
		return
	}
	h.doAllocate(c, req.CustomerID, 0, req.WasherID)
}

func (h *Handler) allocateWasher(c *gin.Context, customerID, vehicleID int64) {
	var req allocateWasherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "washerId is required"})
		return
	}
	h.doAllocate(c, customerID, vehicleID, req.WasherID)
}

func (h *Handler) doAllocate(c *gin.Context, customerID, vehicleID, washerID int64) {
	err := h.store.AllocateWasher(c.Request.Context(), customerID, vehicleID, washerID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "washer or vehicle not found"})
	case errors.Is(err, store.ErrNoVehicle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusOK)
	}
}
