package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Username     string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:254" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	PhoneNumber  string `gorm:"size:20;uniqueIndex;not null" json:"phone_number"`
	Role         string `gorm:"size:20;not null;default:'SENDER'" json:"role"`

	DriverLicense   string   `gorm:"size:50" json:"driver_license"`
	VehicleType     string   `gorm:"size:100" json:"vehicle_type"`
	VehicleCapacity *float64 `json:"vehicle_capacity"`

	IsSubscriptionActive bool `gorm:"default:false" json:"is_subscription_active"`

	// NULL until assigned; unique among non-null values.
	ReferralCode *string `gorm:"size:10;uniqueIndex" json:"referral_code"`
	ReferredByID *uint   `json:"referred_by"`
	ReferredBy   *User   `gorm:"foreignKey:ReferredByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	IsActive    bool `gorm:"default:true" json:"-"`
	IsStaff     bool `gorm:"default:false" json:"-"`
	IsSuperuser bool `gorm:"default:false" json:"-"`

	LastLogin *time.Time `json:"-"`
	CreatedAt time.Time  `json:"date_joined"`
	UpdatedAt time.Time  `json:"-"`
}
