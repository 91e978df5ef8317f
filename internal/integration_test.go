package internal

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"carwash-backend/config"
	"carwash-backend/internal/api"
	"carwash-backend/internal/client"
	"carwash-backend/internal/db"
	"carwash-backend/internal/istdate"
	"carwash-backend/internal/model"
	"carwash-backend/internal/store"
)

// TestWashLifecycle walks one wash through the whole stack: login, the washer
// dashboard fetch, the early-completion confirmation round-trip, the
// optimistic patch with its authoritative refetch, and the cancel-and-restore
// path, verifying database state at each step.
func TestWashLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	testDB, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(testDB))

	s := store.NewGormStore(testDB)
	require.NoError(t, s.EnsureAdminUser(ctx, "admin", "secret"))

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1
	cfg.Auth.JWTSecret = "integration-secret"
	cfg.Auth.TokenTTL = time.Hour

	server := httptest.NewServer(api.NewRouter(s, cfg, nil, nil))
	defer server.Close()

	// Seed one washer with one assigned vehicle, due every day of the week.
	washer := &model.Washer{Name: "Ramesh", MobileNo: "9876543210"}
	require.NoError(t, s.CreateWasher(ctx, washer))

	customer := &model.Customer{
		Name: "Ravi Kumar", MobileNo: "9876543211", Apartment: "Greenview", DoorNo: "A-101",
		Vehicles: []model.Vehicle{{
			VehicleNo:   "KA01AB1234",
			CarType:     "hatchback",
			PackageName: "Classic",
			WashingDays: []int{1, 2, 3, 4, 5, 6, 7},
		}},
	}
	require.NoError(t, s.CreateCustomer(ctx, customer))
	vehicle := customer.Vehicles[0]
	require.NoError(t, s.AllocateWasher(ctx, customer.ID, vehicle.ID, washer.ID))

	pkg := &model.Package{Name: "Classic", CarType: "hatchback", PricePerMonth: 800}
	require.NoError(t, testDB.Create(pkg).Error)
	require.NoError(t, s.StartPackage(ctx, customer.ID, vehicle.ID, pkg.ID, ""))

	// --- Login and first dashboard fetch ---

	cl := client.New(server.URL, 5*time.Second)
	user, err := cl.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)

	dash := client.NewDashboard(cl, washer.ID, 50*time.Millisecond)
	require.NoError(t, dash.Refresh(ctx))

	assignments := dash.Assignments()
	require.Len(t, assignments, 1)
	assert.Equal(t, "KA01AB1234", assignments[0].VehicleNo)
	assert.Equal(t, 12, assignments[0].PendingWashes) // Classic quota
	assert.False(t, assignments[0].WashedToday)
	assignmentID := assignments[0].ID

	// --- Early completion needs an explicit confirmation ---

	tomorrow := istdate.Now().AddDate(0, 0, 1).Format("2006-01-02")
	err = dash.MarkComplete(ctx, assignmentID, tomorrow, false, "")
	require.ErrorIs(t, err, client.ErrConfirmationRequired)

	var logCount int64
	require.NoError(t, testDB.Model(&model.WashLog{}).Count(&logCount).Error)
	assert.Zero(t, logCount, "the guarded attempt must not reach the database")

	// --- Completing today patches the view, then the refetch confirms it ---

	require.NoError(t, dash.MarkComplete(ctx, assignmentID, "today", false, "front gate"))

	patched := dash.Assignments()[0]
	assert.Equal(t, 11, patched.PendingWashes)
	assert.Equal(t, 1, patched.CompletedWashes)
	assert.True(t, patched.WashedToday)

	assert.Eventually(t, func() bool {
		as := dash.Assignments()
		return len(as) == 1 && as[0].LastWash != nil && as[0].LastWash.WashType == model.WashTypeBoth
	}, 2*time.Second, 20*time.Millisecond, "authoritative refetch should land")

	var entry model.WashLog
	require.NoError(t, testDB.Where("vehicle_id = ?", vehicle.ID).First(&entry).Error)
	assert.Equal(t, model.WashStatusCompleted, entry.Status)
	assert.Equal(t, istdate.Today(), entry.WashDate)
	assert.Equal(t, "front gate", entry.Notes)

	// --- The confirmed early completion goes through ---

	require.NoError(t, dash.MarkComplete(ctx, assignmentID, tomorrow, true, ""))
	require.NoError(t, testDB.Model(&model.WashLog{}).Count(&logCount).Error)
	assert.EqualValues(t, 2, logCount)

	// --- Cancelling restores counters and re-enables the vehicle ---

	require.NoError(t, s.CancelWashLog(ctx, entry.ID))
	require.NoError(t, dash.Refresh(ctx))

	restored := dash.Assignments()[0]
	assert.Equal(t, 11, restored.PendingWashes) // 12 - 2 completions + 1 cancel
	assert.Equal(t, 1, restored.CompletedWashes)
	assert.False(t, restored.WashedToday)
}
