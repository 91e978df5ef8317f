package model

import "time"

// Customer owns zero-or-many vehicles. Records imported from the old
// single-vehicle system instead carry the vehicle inline in the Legacy* columns;
// both shapes stay readable and the API serves whichever one is populated.
type Customer struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:128;not null" json:"name"`
	MobileNo  string `gorm:"size:16;index;not null" json:"mobileNo"`
	Email     string `gorm:"size:128" json:"email"`
	Apartment string `gorm:"size:128;index" json:"apartment"`
	DoorNo    string `gorm:"size:32" json:"doorNo"`

	// Legacy single-vehicle columns.
	LegacyVehicleNo   string `gorm:"size:32" json:"vehicleNo,omitempty"`
	LegacyCarModel    string `gorm:"size:64" json:"carModel,omitempty"`
	LegacyCarType     string `gorm:"size:32" json:"carType,omitempty"`
	LegacyPackageName string `gorm:"size:128" json:"packageName,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Vehicles []Vehicle `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"vehicles"`
}
