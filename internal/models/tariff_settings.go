package models

type TariffSettings struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	PricePerKm float64  `gorm:"not null" json:"price_per_km"`
	PricePerKg *float64 `json:"price_per_kg"`
	BaseFee    float64  `gorm:"default:0" json:"base_fee"`
}
