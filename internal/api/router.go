package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"carwash-backend/config"
	"carwash-backend/internal/mw"
	"carwash-backend/internal/notification"
	"carwash-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.Config, webpushOptions *webpush.Options, pool *notification.WorkerPool) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, cfg, webpushOptions, pool)

	rateLimiter := mw.RateLimiter(
		rate.Limit(cfg.Server.RateLimitPerSec),
		cfg.Server.RateLimitBurst,
		cfg.Server.RequestIPHeader,
	)
	r.Use(rateLimiter)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	auth := mw.Auth(cfg.Auth.JWTSecret)

	r.POST("/auth/login", handler.Login)
	r.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

	pkg := r.Group("/package", auth)
	{
		// Both spellings are in the wild.
		pkg.GET("/packages", caching, GetPackages(s))
		pkg.GET("/package", caching, GetPackages(s))
	}

	customer := r.Group("/customer", auth)
	{
		customer.GET("/getcustomers", handler.GetCustomers)
		customer.POST("/add", handler.AddCustomer)
		customer.PUT("/update/:id", handler.UpdateCustomer)
		customer.DELETE("/deletecustomer/:id", handler.DeleteCustomer)

		customer.POST("/complete-wash", handler.CompleteWashLegacy)
		customer.PUT("/allocate-washer", handler.AllocateWasherLegacy)

		customer.GET("/bulk/export-template", handler.ExportCustomerTemplate)
		customer.POST("/bulk/import", handler.ImportCustomers)

		customer.GET("/:id", handler.GetCustomer)
		customer.POST("/:id/vehicles", handler.AddVehicle)
		customer.PUT("/:id/vehicles/:vehicleId", handler.UpdateVehicle)
		customer.POST("/:id/vehicles/:vehicleId/start-package", handler.StartPackage)
		customer.PUT("/:id/vehicles/:vehicleId/allocate-washer", handler.AllocateWasher)

		customer.GET("/:id/wash-history", handler.WashHistory)
		customer.GET("/:id/pending-washes", handler.PendingWashes)
		customer.POST("/:id/complete-pending", handler.CompletePending)
	}

	washer := r.Group("/washer", auth)
	{
		washer.GET("/washer", handler.GetWashers)
		washer.POST("/addwasher", handler.AddWasher)
		washer.GET("/dashboard/:washerId", handler.WasherDashboard)
	}

	washlog := r.Group("/washlog", auth)
	{
		washlog.POST("/:id/cancel", handler.CancelWashLog)
		washlog.GET("/washer/:washerId", handler.WasherLogs)
	}

	subs := r.Group("/subscriptions", auth)
	{
		subs.GET("", handler.GetSubscription)
		subs.PUT("", handler.PutSubscription)
		subs.DELETE("", handler.DeleteSubscription)
	}

	return r
}
