package model

import "time"

// Schedule type values stored on a vehicle.
const (
	ScheduleTypeWeekly = "weekly"
	ScheduleTypeCustom = "custom"
)

// Vehicle is one washable vehicle under a customer's package.
//
// WashingDays holds the canonical weekday set (1=Mon .. 7=Sun). WashingDayNames
// is the older named-day encoding still present on migrated rows; resolution
// order between the two lives in internal/rules.
type Vehicle struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	CustomerID int64  `gorm:"index;not null" json:"customerId"`
	VehicleNo  string `gorm:"uniqueIndex;size:32;not null" json:"vehicleNo"`
	CarModel   string `gorm:"size:64" json:"carModel"`
	CarType    string `gorm:"size:32;index" json:"carType"`

	PackageID   *int64 `gorm:"index" json:"packageId,omitempty"`
	PackageName string `gorm:"size:128" json:"packageName"`

	ScheduleType    string   `gorm:"size:16" json:"scheduleType,omitempty"`
	WashingDays     []int    `gorm:"serializer:json" json:"washingDays,omitempty"`
	WashingDayNames []string `gorm:"serializer:json" json:"washingDayNames,omitempty"`

	PendingWashes   int `gorm:"not null;default:0" json:"pendingWashes"`
	CompletedWashes int `gorm:"not null;default:0" json:"completedWashes"`

	WasherID *int64 `gorm:"index" json:"washerId,omitempty"`

	PackageStartDate *string `gorm:"size:10" json:"packageStartDate,omitempty"`
	LastWashDate     *string `gorm:"size:32" json:"lastWashDate,omitempty"`
	DisabledUntil    *string `gorm:"size:10" json:"disabledUntil,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Package *Package `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Washer  *Washer  `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}
