package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"carwash-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	ListPackages(ctx context.Context) ([]model.Package, error)

	ListCustomers(ctx context.Context) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)
	CreateCustomer(ctx context.Context, c *model.Customer) error
	UpdateCustomer(ctx context.Context, c *model.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error

	GetVehicle(ctx context.Context, customerID, vehicleID int64) (*model.Vehicle, error)
	AddVehicle(ctx context.Context, v *model.Vehicle) error
	UpdateVehicle(ctx context.Context, v *model.Vehicle) error
	StartPackage(ctx context.Context, customerID, vehicleID, packageID int64, startDate string) error
	AllocateWasher(ctx context.Context, customerID, vehicleID, washerID int64) error

	ListWashers(ctx context.Context) ([]model.Washer, error)
	CreateWasher(ctx context.Context, w *model.Washer) error

	Dashboard(ctx context.Context, washerID int64, date, apartment, carType string) ([]*Assignment, error)
	CompleteWash(ctx context.Context, req CompleteWashRequest) (*CompletionResult, error)
	CancelWashLog(ctx context.Context, logID int64) error
	WashHistory(ctx context.Context, customerID int64, year int, month time.Month) ([]model.WashLog, error)
	PendingWashes(ctx context.Context, customerID int64, year int, month time.Month) ([]PendingWash, error)
	WasherLogs(ctx context.Context, washerID int64, year int, month time.Month) ([]model.WashLog, error)

	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	EnsureAdminUser(ctx context.Context, username, password string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for handlers that need raw access
// (push subscriptions, notification worker).
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) ListPackages(ctx context.Context) ([]model.Package, error) {
	var pkgs []model.Package
	if err := s.db.WithContext(ctx).Order("price_per_month").Find(&pkgs).Error; err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return pkgs, nil
}

func (s *gormStore) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	if err := s.db.WithContext(ctx).Preload("Vehicles").Order("name").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *gormStore) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	var customer model.Customer
	if err := s.db.WithContext(ctx).Preload("Vehicles").First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *gormStore) CreateCustomer(ctx context.Context, c *model.Customer) error {
	for i := range c.Vehicles {
		if err := validateWashingDays(c.Vehicles[i].WashingDays); err != nil {
			return err
		}
	}
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *gormStore) UpdateCustomer(ctx context.Context, c *model.Customer) error {
	res := s.db.WithContext(ctx).Model(&model.Customer{ID: c.ID}).Updates(map[string]any{
		"name":      c.Name,
		"mobile_no": c.MobileNo,
		"email":     c.Email,
		"apartment": c.Apartment,
		"door_no":   c.DoorNo,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) DeleteCustomer(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&model.Vehicle{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Customer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (s *gormStore) GetVehicle(ctx context.Context, customerID, vehicleID int64) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	q := s.db.WithContext(ctx).Preload("Package")
	if customerID != 0 {
		q = q.Where("customer_id = ?", customerID)
	}
	if err := q.First(&vehicle, vehicleID).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (s *gormStore) AddVehicle(ctx context.Context, v *model.Vehicle) error {
	if err := validateWashingDays(v.WashingDays); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(v).Error
}

func (s *gormStore) UpdateVehicle(ctx context.Context, v *model.Vehicle) error {
	if err := validateWashingDays(v.WashingDays); err != nil {
		return err
	}
	// Struct-based update so the serialized day columns go through the JSON
	// serializer; Select forces zero values (cleared day sets) to persist.
	res := s.db.WithContext(ctx).
		Model(&model.Vehicle{ID: v.ID}).
		Where("customer_id = ?", v.CustomerID).
		Select("vehicle_no", "car_model", "car_type", "schedule_type", "washing_days", "washing_day_names").
		Updates(v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AllocateWasher attaches a washer to a vehicle. A vehicleID of zero targets
// the customer's sole vehicle (legacy single-vehicle flow).
func (s *gormStore) AllocateWasher(ctx context.Context, customerID, vehicleID, washerID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var washer model.Washer
		if err := tx.First(&washer, washerID).Error; err != nil {
			return fmt.Errorf("washer %d: %w", washerID, err)
		}

		vehicle, err := resolveVehicle(tx, customerID, vehicleID)
		if err != nil {
			return err
		}

		return tx.Model(vehicle).Update("washer_id", washerID).Error
	})
}

func (s *gormStore) ListWashers(ctx context.Context) ([]model.Washer, error) {
	var washers []model.Washer
	if err := s.db.WithContext(ctx).Order("name").Find(&washers).Error; err != nil {
		return nil, fmt.Errorf("failed to list washers: %w", err)
	}
	return washers, nil
}

func (s *gormStore) CreateWasher(ctx context.Context, w *model.Washer) error {
	w.IsActive = true
	return s.db.WithContext(ctx).Create(w).Error
}

func (s *gormStore) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash != hashPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// EnsureAdminUser creates the bootstrap admin account if it does not exist.
func (s *gormStore) EnsureAdminUser(ctx context.Context, username, password string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&model.User{
		Username:     username,
		PasswordHash: hashPassword(password),
		Role:         model.RoleAdmin,
	}).Error
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// validateWashingDays asserts the Mon=1..Sun=7 encoding at the integration
// boundary; nothing upstream enforces it.
func validateWashingDays(days []int) error {
	for _, d := range days {
		if d < 1 || d > 7 {
			return ErrInvalidWashingDays
		}
	}
	return nil
}

// resolveVehicle looks up a vehicle either directly by ID or, when vehicleID
// is zero, as the customer's only vehicle.
func resolveVehicle(tx *gorm.DB, customerID, vehicleID int64) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if vehicleID != 0 {
		q := tx.Preload("Package")
		if customerID != 0 {
			q = q.Where("customer_id = ?", customerID)
		}
		if err := q.First(&vehicle, vehicleID).Error; err != nil {
			return nil, err
		}
		return &vehicle, nil
	}

	var vehicles []model.Vehicle
	if err := tx.Preload("Package").Where("customer_id = ?", customerID).
		Limit(2).Find(&vehicles).Error; err != nil {
		return nil, err
	}
	switch len(vehicles) {
	case 0:
		return nil, ErrNoVehicle
	case 1:
		return &vehicles[0], nil
	default:
		return nil, fmt.Errorf("customer %d has multiple vehicles; vehicle id is required", customerID)
	}
}
