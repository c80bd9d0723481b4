package models

import "time"

const (
	NotificationNewOrder             = "NEW_ORDER"
	NotificationOrderAccepted        = "ORDER_ACCEPTED"
	NotificationOrderDelivered       = "ORDER_DELIVERED"
	NotificationSubscriptionExpiring = "SUBSCRIPTION_EXPIRING"
)

type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"not null;index:idx_notifications_user_read,priority:1" json:"user"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Type    string `gorm:"size:30;not null" json:"type"`
	Title   string `gorm:"size:200;not null" json:"title"`
	Message string `gorm:"type:text;not null" json:"message"`

	OrderID *uint  `json:"order"`
	Order   *Order `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	IsRead    bool      `gorm:"default:false;index:idx_notifications_user_read,priority:2" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
