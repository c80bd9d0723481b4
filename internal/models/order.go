package models

import "time"

type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SenderID uint `gorm:"not null;index:idx_orders_sender_created,priority:1" json:"sender"`
	Sender   User `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	DriverID *uint `gorm:"index" json:"driver"`
	Driver   *User `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	DeparturePointID   uint     `gorm:"not null" json:"-"`
	DeparturePoint     Location `gorm:"foreignKey:DeparturePointID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"departure_point"`
	DestinationPointID uint     `gorm:"not null" json:"-"`
	DestinationPoint   Location `gorm:"foreignKey:DestinationPointID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"destination_point"`

	CargoTypeID *uint      `json:"-"`
	CargoType   *CargoType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"cargo_type"`

	Weight      float64  `gorm:"not null" json:"weight"`
	Length      *float64 `json:"length"`
	Width       *float64 `json:"width"`
	Height      *float64 `json:"height"`
	Description string   `gorm:"type:text" json:"description"`

	// Stored as supplied by clients, never computed.
	DistanceKm         *float64 `json:"distance_km"`
	EstimatedTimeHours *float64 `json:"estimated_time_hours"`
	TotalCost          *float64 `json:"total_cost"`

	Status      string     `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	CreatedAt   time.Time  `gorm:"index:idx_orders_sender_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time  `json:"-"`
	AcceptedAt  *time.Time `json:"accepted_at"`
	DeliveredAt *time.Time `json:"delivered_at"`

	IsDriverSharingLocation bool `gorm:"default:false" json:"is_driver_sharing_location"`
}
