package model

import "time"

// WashLog status values. Logs are append-only: a revert marks the entry
// cancelled rather than deleting it.
const (
	WashStatusCompleted = "completed"
	WashStatusPending   = "pending"
	WashStatusCancelled = "cancelled"
)

// Wash type values.
const (
	WashTypeExterior = "exterior"
	WashTypeBoth     = "both"
)

// WashLog records one wash occurrence for a vehicle.
type WashLog struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	VehicleID  int64  `gorm:"index;not null" json:"vehicleId"`
	CustomerID int64  `gorm:"index;not null" json:"customerId"`
	WasherID   *int64 `gorm:"index" json:"washerId,omitempty"`
	WasherName string `gorm:"size:128" json:"washerName"`
	WashDate   string `gorm:"size:10;index;not null" json:"washDate"` // YYYY-MM-DD, IST calendar
	Status     string `gorm:"size:16;index;not null" json:"status"`
	WashType   string `gorm:"size:16;not null" json:"washType"`
	Notes      string `gorm:"size:512" json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
