package model

import "time"

// User roles accepted at login.
const (
	RoleAdmin  = "admin"
	RoleWasher = "washer"
)

// User is a dashboard login account. Washer accounts carry the washer row they
// act on behalf of.
type User struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Role         string `gorm:"size:16;not null" json:"role"`
	WasherID     *int64 `gorm:"index" json:"washerId,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
