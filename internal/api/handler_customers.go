package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"carwash-backend/internal/model"
	"carwash-backend/internal/parse"
)

type vehicleRequest struct {
	VehicleNo       string   `json:"vehicleNo" binding:"required"`
	CarModel        string   `json:"carModel"`
	CarType         string   `json:"carType"`
	PackageName     string   `json:"packageName"`
	ScheduleType    string   `json:"scheduleType"`
	WashingDays     []int    `json:"washingDays"`
	WashingDayNames []string `json:"washingDayNames"`
}

type customerRequest struct {
	Name      string           `json:"name"`
	MobileNo  string           `json:"mobileNo"`
	Email     string           `json:"email"`
	Apartment string           `json:"apartment"`
	DoorNo    string           `json:"doorNo"`
	Vehicles  []vehicleRequest `json:"vehicles"`

	// Legacy single-vehicle shape.
	VehicleNo   string `json:"vehicleNo"`
	CarModel    string `json:"carModel"`
	CarType     string `json:"carType"`
	PackageName string `json:"packageName"`
}

// validate mirrors the inline form checks: required fields and the 10-digit
// mobile pattern are rejected before any store call.
func (r *customerRequest) validate() map[string]string {
	fieldErrors := make(map[string]string)
	if strings.TrimSpace(r.Name) == "" {
		fieldErrors["name"] = "name is required"
	}
	if !parse.ValidMobile(r.MobileNo) {
		fieldErrors["mobileNo"] = "mobile number must be 10 digits"
	}
	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

func (r *customerRequest) toModel() (*model.Customer, error) {
	customer := &model.Customer{
		Name:      strings.TrimSpace(r.Name),
		MobileNo:  r.MobileNo,
		Email:     r.Email,
		Apartment: r.Apartment,
		DoorNo:    r.DoorNo,
	}

	for _, v := range r.Vehicles {
		vehicleNo, err := parse.NormalizeVehicleNo(v.VehicleNo)
		if err != nil {
			return nil, err
		}
		customer.Vehicles = append(customer.Vehicles, model.Vehicle{
			VehicleNo:       vehicleNo,
			CarModel:        v.CarModel,
			CarType:         v.CarType,
			PackageName:     v.PackageName,
			ScheduleType:    v.ScheduleType,
			WashingDays:     v.WashingDays,
			WashingDayNames: v.WashingDayNames,
		})
	}

	// Old clients send the vehicle inline; keep it on the legacy columns.
	if len(r.Vehicles) == 0 && r.VehicleNo != "" {
		vehicleNo, err := parse.NormalizeVehicleNo(r.VehicleNo)
		if err != nil {
			return nil, err
		}
		customer.LegacyVehicleNo = vehicleNo
		customer.LegacyCarModel = r.CarModel
		customer.LegacyCarType = r.CarType
		customer.LegacyPackageName = r.PackageName
	}

	return customer, nil
}

// GetCustomers handles GET /customer/getcustomers.
func (h *Handler) GetCustomers(c *gin.Context) {
	customers, err := h.store.ListCustomers(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomer handles GET /customer/:id.
func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.store.GetCustomer(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// AddCustomer handles POST /customer/add.
func (h *Handler) AddCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldErrors})
		return
	}

	customer, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.CreateCustomer(c.Request.Context(), customer); err != nil {
		status := http.StatusInternalServerError
		if isDuplicateErr(err) {
			status = http.StatusConflict
			err = errors.New("vehicle number already registered")
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer handles PUT /customer/update/:id. Vehicle mutations go
// through the vehicle endpoints; this updates the contact fields only.
func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldErrors})
		return
	}

	customer := &model.Customer{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		MobileNo:  req.MobileNo,
		Email:     req.Email,
		Apartment: req.Apartment,
		DoorNo:    req.DoorNo,
	}
	err := h.store.UpdateCustomer(c.Request.Context(), customer)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /customer/deletecustomer/:id.
func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.store.DeleteCustomer(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
