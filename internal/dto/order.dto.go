package dto

import "time"

type CreateOrderRequest struct {
	DeparturePoint          uint     `json:"departure_point" binding:"required"`
	DestinationPoint        uint     `json:"destination_point" binding:"required"`
	CargoType               *uint    `json:"cargo_type"`
	Weight                  float64  `json:"weight" binding:"required,gt=0"`
	Length                  *float64 `json:"length" binding:"omitempty,gt=0"`
	Width                   *float64 `json:"width" binding:"omitempty,gt=0"`
	Height                  *float64 `json:"height" binding:"omitempty,gt=0"`
	Description             string   `json:"description"`
	DistanceKm              *float64 `json:"distance_km" binding:"omitempty,gte=0"`
	EstimatedTimeHours      *float64 `json:"estimated_time_hours" binding:"omitempty,gte=0"`
	TotalCost               *float64 `json:"total_cost" binding:"omitempty,gte=0"`
	IsDriverSharingLocation bool     `json:"is_driver_sharing_location"`
}

// UpdateOrderRequest is a partial update. Nullable fields use Optional so
// an explicit null clears the value while an absent key leaves it alone.
type UpdateOrderRequest struct {
	Status                  *string             `json:"status"`
	Driver                  Optional[uint]      `json:"driver"`
	DeparturePoint          *uint               `json:"departure_point"`
	DestinationPoint        *uint               `json:"destination_point"`
	CargoType               Optional[uint]      `json:"cargo_type"`
	Weight                  *float64            `json:"weight"`
	Length                  Optional[float64]   `json:"length"`
	Width                   Optional[float64]   `json:"width"`
	Height                  Optional[float64]   `json:"height"`
	Description             *string             `json:"description"`
	DistanceKm              Optional[float64]   `json:"distance_km"`
	EstimatedTimeHours      Optional[float64]   `json:"estimated_time_hours"`
	TotalCost               Optional[float64]   `json:"total_cost"`
	AcceptedAt              Optional[time.Time] `json:"accepted_at"`
	DeliveredAt             Optional[time.Time] `json:"delivered_at"`
	IsDriverSharingLocation *bool               `json:"is_driver_sharing_location"`
}
