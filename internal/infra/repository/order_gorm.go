package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	domain "github.com/BruksfildServices01/trucking-desk/internal/domain/order"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

var _ domain.Repository = (*OrderGormRepository)(nil)

// --------------------------------------------------
// Scope
// --------------------------------------------------

func applyScope(q *gorm.DB, scope access.OrderScope) *gorm.DB {
	switch {
	case scope.All:
		return q
	case scope.SenderID != nil:
		return q.Where("orders.sender_id = ?", *scope.SenderID)
	case scope.DriverID != nil:
		return q.Where("orders.driver_id = ?", *scope.DriverID)
	}
	return q.Where("1 = 0")
}

func (r *OrderGormRepository) withRefs(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("DeparturePoint").
		Preload("DestinationPoint").
		Preload("CargoType")
}

// --------------------------------------------------
// Order
// --------------------------------------------------

func (r *OrderGormRepository) CreateOrder(
	ctx context.Context,
	o *models.Order,
) error {
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(o).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return r.reload(ctx, o)
}

func (r *OrderGormRepository) GetOrderInScope(
	ctx context.Context,
	id uint,
	scope access.OrderScope,
) (*models.Order, error) {

	var o models.Order
	err := applyScope(r.withRefs(ctx), scope).
		Where("orders.id = ?", id).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("order_not_found")
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

func (r *OrderGormRepository) ListOrders(
	ctx context.Context,
	scope access.OrderScope,
	filter domain.ListFilter,
	limit int,
	offset int,
) ([]models.Order, int64, error) {

	q := applyScope(r.db.WithContext(ctx).Model(&models.Order{}), scope)

	if filter.Status != "" {
		q = q.Where("orders.status = ?", filter.Status)
	}
	if filter.CargoTypeID != nil {
		q = q.Where("orders.cargo_type_id = ?", *filter.CargoTypeID)
	}
	if filter.DeparturePointID != nil {
		q = q.Where("orders.departure_point_id = ?", *filter.DeparturePointID)
	}
	if filter.DestinationPointID != nil {
		q = q.Where("orders.destination_point_id = ?", *filter.DestinationPointID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var orders []models.Order
	if err := q.
		Preload("DeparturePoint").
		Preload("DestinationPoint").
		Preload("CargoType").
		Order("orders.created_at DESC").
		Order("orders.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

func (r *OrderGormRepository) UpdateOrder(
	ctx context.Context,
	o *models.Order,
) error {
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(o).Error; err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return r.reload(ctx, o)
}

func (r *OrderGormRepository) reload(ctx context.Context, o *models.Order) error {
	var fresh models.Order
	if err := r.withRefs(ctx).First(&fresh, o.ID).Error; err != nil {
		return fmt.Errorf("reload order: %w", err)
	}
	*o = fresh
	return nil
}

// --------------------------------------------------
// References
// --------------------------------------------------

func (r *OrderGormRepository) LocationExists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.Location{}, id)
}

func (r *OrderGormRepository) CargoTypeExists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.CargoType{}, id)
}

func (r *OrderGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("user_not_found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func exists(ctx context.Context, db *gorm.DB, model any, id uint) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
