package model

import "time"

// Washer is a field worker assigned vehicles to wash.
type Washer struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:128;not null" json:"name"`
	MobileNo  string `gorm:"size:16;index;not null" json:"mobileNo"`
	Apartment string `gorm:"size:128" json:"apartment"`
	IsActive  bool   `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
