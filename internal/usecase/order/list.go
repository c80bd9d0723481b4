package order

import (
	"context"

	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	domain "github.com/BruksfildServices01/trucking-desk/internal/domain/order"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

type ListOrders struct {
	repo domain.Repository
}

func NewListOrders(repo domain.Repository) *ListOrders {
	return &ListOrders{repo: repo}
}

func (uc *ListOrders) Execute(
	ctx context.Context,
	actor access.Actor,
	filter domain.ListFilter,
	limit int,
	offset int,
) ([]models.Order, int64, error) {

	if filter.Status != "" {
		st, err := domain.ParseStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = string(st)
	}

	return uc.repo.ListOrders(ctx, access.OrderScopeFor(actor), filter, limit, offset)
}

type GetOrder struct {
	repo domain.Repository
}

func NewGetOrder(repo domain.Repository) *GetOrder {
	return &GetOrder{repo: repo}
}

// Execute returns order_not_found for orders outside the actor's scope.
func (uc *GetOrder) Execute(
	ctx context.Context,
	actor access.Actor,
	id uint,
) (*models.Order, error) {
	return uc.repo.GetOrderInScope(ctx, id, access.OrderScopeFor(actor))
}
