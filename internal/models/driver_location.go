package models

import "time"

type DriverLocation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DriverID uint `gorm:"uniqueIndex;not null" json:"driver"`
	Driver   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updated_at"`
}
