package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

func (r *NotificationGormRepository) Notify(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}
