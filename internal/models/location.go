package models

type Location struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	CityName  string   `gorm:"size:100;not null;index" json:"city_name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
