package order

import (
	"context"

	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

type ListFilter struct {
	Status             string
	CargoTypeID        *uint
	DeparturePointID   *uint
	DestinationPointID *uint
}

type Repository interface {
	// -------- Order --------
	CreateOrder(
		ctx context.Context,
		o *models.Order,
	) error

	// GetOrderInScope returns ErrBusiness("order_not_found") both when the
	// order does not exist and when it lies outside scope.
	GetOrderInScope(
		ctx context.Context,
		id uint,
		scope access.OrderScope,
	) (*models.Order, error)

	ListOrders(
		ctx context.Context,
		scope access.OrderScope,
		filter ListFilter,
		limit int,
		offset int,
	) ([]models.Order, int64, error)

	UpdateOrder(
		ctx context.Context,
		o *models.Order,
	) error

	// -------- References --------
	LocationExists(ctx context.Context, id uint) (bool, error)
	CargoTypeExists(ctx context.Context, id uint) (bool, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}
