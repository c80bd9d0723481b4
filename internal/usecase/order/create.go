package order

import (
	"context"

	"github.com/BruksfildServices01/trucking-desk/internal/audit"
	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	domain "github.com/BruksfildServices01/trucking-desk/internal/domain/order"
	"github.com/BruksfildServices01/trucking-desk/internal/dto"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

type CreateOrder struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewCreateOrder(
	repo domain.Repository,
	audit audit.Sink,
) *CreateOrder {
	return &CreateOrder{
		repo:  repo,
		audit: audit,
	}
}

// Execute creates an order owned by the actor. Status always starts at
// PENDING and no driver is assigned.
func (uc *CreateOrder) Execute(
	ctx context.Context,
	actor access.Actor,
	in dto.CreateOrderRequest,
) (*models.Order, error) {

	if access.AuthorizeOrder(actor, access.ActionCreate, nil) != access.Allow {
		return nil, httperr.ErrBusiness("forbidden_role")
	}

	if err := checkLocation(ctx, uc.repo, in.DeparturePoint, "departure_point_not_found"); err != nil {
		return nil, err
	}
	if err := checkLocation(ctx, uc.repo, in.DestinationPoint, "destination_point_not_found"); err != nil {
		return nil, err
	}
	if in.CargoType != nil {
		if err := checkCargoType(ctx, uc.repo, *in.CargoType); err != nil {
			return nil, err
		}
	}

	o := &models.Order{
		SenderID:                actor.UserID,
		DeparturePointID:        in.DeparturePoint,
		DestinationPointID:      in.DestinationPoint,
		CargoTypeID:             in.CargoType,
		Weight:                  in.Weight,
		Length:                  in.Length,
		Width:                   in.Width,
		Height:                  in.Height,
		Description:             in.Description,
		DistanceKm:              in.DistanceKm,
		EstimatedTimeHours:      in.EstimatedTimeHours,
		TotalCost:               in.TotalCost,
		Status:                  string(domain.InitialStatus()),
		IsDriverSharingLocation: in.IsDriverSharingLocation,
	}

	if err := uc.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actor.UserID,
		Action:   audit.ActionOrderCreated,
		Entity:   "order",
		EntityID: &o.ID,
	})

	return o, nil
}

func checkLocation(ctx context.Context, repo domain.Repository, id uint, code string) error {
	ok, err := repo.LocationExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrBusiness(code)
	}
	return nil
}

func checkCargoType(ctx context.Context, repo domain.Repository, id uint) error {
	ok, err := repo.CargoTypeExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrBusiness("cargo_type_not_found")
	}
	return nil
}
