package model

import "time"

// Package represents a monthly wash subscription package (e.g. "Basic", "Classic").
// The cadence derived from the name lives in internal/rules; the raw count fields
// here are only the fallback for names outside the fixed vocabulary.
type Package struct {
	ID                int64   `gorm:"primaryKey" json:"id"`
	Name              string  `gorm:"uniqueIndex;size:128;not null" json:"name"`
	CarType           string  `gorm:"size:32;not null" json:"carType"`
	PricePerMonth     float64 `gorm:"not null" json:"pricePerMonth"`
	WashCountPerMonth int     `json:"washCountPerMonth"`
	WashCountPerWeek  int     `json:"washCountPerWeek"`
	InteriorCleaning  int     `json:"interiorCleaning"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
