package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"carwash-backend/config"
	"carwash-backend/internal/db"
	"carwash-backend/internal/istdate"
	"carwash-backend/internal/model"
	"carwash-backend/internal/mw"
	"carwash-backend/internal/store"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	return cfg
}

func newTestRouter(t *testing.T) (*gin.Engine, store.Store, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	s := store.NewGormStore(gdb)
	cfg := testConfig()
	return NewRouter(s, cfg, nil, nil), s, cfg
}

func adminToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := mw.SignToken(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, mw.TokenClaims{
		UserID: 1, Username: "admin", Role: model.RoleAdmin,
	})
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestAuthRequired(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/customer/getcustomers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/customer/getcustomers", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin(t *testing.T) {
	r, s, _ := newTestRouter(t)
	require.NoError(t, s.EnsureAdminUser(context.Background(), "admin", "secret"))

	rec := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"username": "admin", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Token string     `json:"token"`
			User  model.User `json:"user"`
		} `json:"data"`
	}
	decodeBody(t, rec, &resp)
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, model.RoleAdmin, resp.Data.User.Role)

	// The issued token is accepted by protected routes.
	rec = doJSON(t, r, http.MethodGet, "/customer/getcustomers", resp.Data.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddCustomer(t *testing.T) {
	r, _, cfg := newTestRouter(t)
	token := adminToken(t, cfg)

	rec := doJSON(t, r, http.MethodPost, "/customer/add", token, gin.H{
		"name":     "Ravi Kumar",
		"mobileNo": "9876543210",
		"vehicles": []gin.H{{
			"vehicleNo":   "ka 01 ab 1234",
			"carType":     "hatchback",
			"packageName": "Classic",
			"washingDays": []int{1, 3, 5},
		}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Customer
	decodeBody(t, rec, &created)
	require.Len(t, created.Vehicles, 1)
	assert.Equal(t, "KA01AB1234", created.Vehicles[0].VehicleNo)

	// Duplicate vehicle number.
	rec = doJSON(t, r, http.MethodPost, "/customer/add", token, gin.H{
		"name":     "Shyam",
		"mobileNo": "9876543211",
		"vehicles": []gin.H{{"vehicleNo": "KA01AB1234"}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Field validation.
	rec = doJSON(t, r, http.MethodPost, "/customer/add", token, gin.H{
		"name":     "",
		"mobileNo": "12345",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "validation failed", errResp.Error)
	assert.Contains(t, errResp.Fields, "name")
	assert.Contains(t, errResp.Fields, "mobileNo")

	// Bad washing days are rejected by the store.
	rec = doJSON(t, r, http.MethodPost, "/customer/add", token, gin.H{
		"name":     "Gita",
		"mobileNo": "9876543212",
		"vehicles": []gin.H{{"vehicleNo": "KA05GH3456", "washingDays": []int{9}}},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLegacyCustomerShape(t *testing.T) {
	r, _, cfg := newTestRouter(t)
	token := adminToken(t, cfg)

	rec := doJSON(t, r, http.MethodPost, "/customer/add", token, gin.H{
		"name":        "Ravi",
		"mobileNo":    "9876543210",
		"vehicleNo":   "KA01AB1234",
		"carType":     "sedan",
		"packageName": "Basic",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Customer
	decodeBody(t, rec, &created)
	assert.Empty(t, created.Vehicles)
	assert.Equal(t, "KA01AB1234", created.LegacyVehicleNo)
	assert.Equal(t, "Basic", created.LegacyPackageName)
}

func TestCustomerUpdateAndDelete(t *testing.T) {
	r, s, cfg := newTestRouter(t)
	token := adminToken(t, cfg)

	c := &model.Customer{Name: "Ravi", MobileNo: "9876543210"}
	require.NoError(t, s.CreateCustomer(context.Background(), c))

	rec := doJSON(t, r, http.MethodPut, fmt.Sprintf("/customer/update/%d", c.ID), token, gin.H{
		"name": "Ravi K", "mobileNo": "9876543210", "apartment": "Lakeside",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	got, err := s.GetCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi K", got.Name)
	assert.Equal(t, "Lakeside", got.Apartment)

	rec = doJSON(t, r, http.MethodPut, "/customer/update/999", token, gin.H{
		"name": "Nobody", "mobileNo": "9876543210",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/customer/deletecustomer/%d", c.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/customer/%d", c.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPackagesWithSpecs(t *testing.T) {
	r, s, cfg := newTestRouter(t)
	token := adminToken(t, cfg)

	require.NoError(t, s.DB().Create(&model.Package{
		Name: "Classic", CarType: "sedan", PricePerMonth: 800,
	}).Error)

	rec := doJSON(t, r, http.MethodGet, "/package/packages", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var pkgs []struct {
		Name  string `json:"name"`
		Specs struct {
			ExteriorPerMonth int `json:"exteriorPerMonth"`
			InteriorPerMonth int `json:"interiorPerMonth"`
		} `json:"specs"`
	}
	decodeBody(t, rec, &pkgs)
	require.Len(t, pkgs, 1)
	assert.Equal(t, 12, pkgs[0].Specs.ExteriorPerMonth)
	assert.Equal(t, 2, pkgs[0].Specs.InteriorPerMonth)
}

func TestCompletePending_ConfirmationFlow(t *testing.T) {
	r, s, cfg := newTestRouter(t)
	token := adminToken(t, cfg)

	tomorrow := istdate.Now().AddDate(0, 0, 1).Format("2006-01-02")
	day := istdate.Weekday(tomorrow)
	c := &model.Customer{Name: "Ravi", MobileNo: "9876543210", Vehicles: []model.Vehicle{{
		VehicleNo: "KA01AB1234", PackageName: "Classic", WashingDays: []int{day}, PendingWashes: 12,
	}}}
	require.NoError(t, s.CreateCustomer(context.Background(), c))
	vehicleID := c.Vehicles[0].ID
	path := fmt.Sprintf("/customer/%d/complete-pending", c.ID)

	rec := doJSON(t, r, http.MethodPost, path, token, gin.H{
		"vehicleId": vehicleID, "washDate": tomorrow,
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	var conflict struct {
		Error                string `json:"error"`
		ConfirmationRequired bool   `json:"confirmationRequired"`
	}
	decodeBody(t, rec, &conflict)
	assert.True(t, conflict.ConfirmationRequired)

	rec = doJSON(t, r, http.MethodPost, path, token, gin.H{
		"vehicleId": vehicleID, "washDate": tomorrow, "confirmEarly": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result store.CompletionResult
	decodeBody(t, rec, &result)
	assert.Equal(t, vehicleID, result.AssignmentID)
	assert.Equal(t, tomorrow, result.WashDate)
	assert.False(t, result.WashedToday)
}

func TestCompleteWashLegacy(t *testing.T) {
	r, s, cfg := newTestRouter(t)
	token := adminToken(t, cfg)

	c := &model.Customer{Name: "Ravi", MobileNo: "9876543210", Vehicles: []model.Vehicle{{
		VehicleNo: "KA01AB1234", PendingWashes: 4,
	}}}
	require.NoError(t, s.CreateCustomer(context.Background(), c))

	rec := doJSON(t, r, http.MethodPost, "/customer/complete-wash", token, gin.H{"customerId": c.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Missing customerId.
	rec = doJSON(t, r, http.MethodPost, "/customer/complete-wash", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWasherDashboardEndpoint(t *testing.T) {
	r, s, cfg := newTestRouter(t)
	token := adminToken(t, cfg)

	w := &model.Washer{Name: "Ramesh", MobileNo: "9876543210"}
	require.NoError(t, s.CreateWasher(context.Background(), w))
	c := &model.Customer{Name: "Ravi", MobileNo: "9876543211", Apartment: "Greenview", Vehicles: []model.Vehicle{{
		VehicleNo: "KA01AB1234", CarType: "suv", WasherID: &w.ID, WashingDays: []int{1, 2, 3, 4, 5, 6, 7},
	}}}
	require.NoError(t, s.CreateCustomer(context.Background(), c))

	path := fmt.Sprintf("/washer/dashboard/%d?date=all&apartment=Greenview&carType=SUV", w.ID)
	rec := doJSON(t, r, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var assignments []store.Assignment
	decodeBody(t, rec, &assignments)
	require.Len(t, assignments, 1)
	assert.Equal(t, "KA01AB1234", assignments[0].VehicleNo)
	assert.Equal(t, c.ID, assignments[0].CustomerID)

	rec = doJSON(t, r, http.MethodGet, "/washer/dashboard/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelWashLogEndpoint(t *testing.T) {
	r, s, cfg := newTestRouter(t)
	token := adminToken(t, cfg)

	c := &model.Customer{Name: "Ravi", MobileNo: "9876543210", Vehicles: []model.Vehicle{{
		VehicleNo: "KA01AB1234", PendingWashes: 2,
	}}}
	require.NoError(t, s.CreateCustomer(context.Background(), c))
	res, err := s.CompleteWash(context.Background(), store.CompleteWashRequest{VehicleID: c.Vehicles[0].ID})
	require.NoError(t, err)

	path := fmt.Sprintf("/washlog/%d/cancel", res.WashLogID)
	rec := doJSON(t, r, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A cancelled log cannot be cancelled twice.
	rec = doJSON(t, r, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/washlog/999/cancel", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartPackageEndpoint(t *testing.T) {
	r, s, cfg := newTestRouter(t)
	token := adminToken(t, cfg)

	pkg := &model.Package{Name: "Basic", CarType: "hatchback", PricePerMonth: 500}
	require.NoError(t, s.DB().Create(pkg).Error)
	c := &model.Customer{Name: "Ravi", MobileNo: "9876543210", Vehicles: []model.Vehicle{{
		VehicleNo: "KA01AB1234",
	}}}
	require.NoError(t, s.CreateCustomer(context.Background(), c))

	path := fmt.Sprintf("/customer/%d/vehicles/%d/start-package", c.ID, c.Vehicles[0].ID)
	rec := doJSON(t, r, http.MethodPost, path, token, gin.H{"packageId": pkg.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := s.GetVehicle(context.Background(), c.ID, c.Vehicles[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Basic", got.PackageName)
	assert.Equal(t, 8, got.PendingWashes)

	rec = doJSON(t, r, http.MethodPost, path, token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAllocateWasherEndpoints(t *testing.T) {
	r, s, cfg := newTestRouter(t)
	token := adminToken(t, cfg)

	w := &model.Washer{Name: "Ramesh", MobileNo: "9876543210"}
	require.NoError(t, s.CreateWasher(context.Background(), w))
	c := &model.Customer{Name: "Ravi", MobileNo: "9876543211", Vehicles: []model.Vehicle{{
		VehicleNo: "KA01AB1234",
	}}}
	require.NoError(t, s.CreateCustomer(context.Background(), c))

	// Legacy body-level target.
	rec := doJSON(t, r, http.MethodPut, "/customer/allocate-washer", token, gin.H{
		"customerId": c.ID, "washerId": w.ID,
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	path := fmt.Sprintf("/customer/%d/vehicles/%d/allocate-washer", c.ID, c.Vehicles[0].ID)
	rec = doJSON(t, r, http.MethodPut, path, token, gin.H{"washerId": w.ID})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPut, path, token, gin.H{"washerId": 999})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddWasherValidation(t *testing.T) {
	r, _, cfg := newTestRouter(t)
	token := adminToken(t, cfg)

	rec := doJSON(t, r, http.MethodPost, "/washer/addwasher", token, gin.H{
		"name": "Ramesh", "mobileNo": "12345",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/washer/addwasher", token, gin.H{
		"name": "Ramesh", "mobileNo": "9876543210",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Washer
	decodeBody(t, rec, &created)
	assert.True(t, created.IsActive)
}
