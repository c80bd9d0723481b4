package models

import "time"

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrderID uint  `gorm:"not null;uniqueIndex:idx_reviews_order_reviewer,priority:1" json:"order"`
	Order   Order `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ReviewerID uint `gorm:"not null;uniqueIndex:idx_reviews_order_reviewer,priority:2" json:"reviewer"`
	Reviewer   User `gorm:"foreignKey:ReviewerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ReviewedUserID uint `gorm:"not null;index" json:"reviewed_user"`
	ReviewedUser   User `gorm:"foreignKey:ReviewedUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
