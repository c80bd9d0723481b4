package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/trucking-desk/internal/audit"
	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	domain "github.com/BruksfildServices01/trucking-desk/internal/domain/order"
	"github.com/BruksfildServices01/trucking-desk/internal/dto"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
	"github.com/BruksfildServices01/trucking-desk/internal/timezone"
)

type UpdateOrder struct {
	repo     domain.Repository
	policy   domain.TransitionPolicy
	audit    audit.Sink
	notifier Notifier
	log      *zap.Logger
	tz       string
}

func NewUpdateOrder(
	repo domain.Repository,
	policy domain.TransitionPolicy,
	audit audit.Sink,
	notifier Notifier,
	log *zap.Logger,
	tz string,
) *UpdateOrder {
	return &UpdateOrder{
		repo:     repo,
		policy:   policy,
		audit:    audit,
		notifier: notifier,
		log:      log,
		tz:       tz,
	}
}

func (uc *UpdateOrder) Execute(
	ctx context.Context,
	actor access.Actor,
	id uint,
	in dto.UpdateOrderRequest,
) (*models.Order, error) {

	o, err := uc.repo.GetOrderInScope(ctx, id, access.OrderScopeFor(actor))
	if err != nil {
		return nil, err
	}

	ref := domain.Ref(o)
	if access.AuthorizeOrder(actor, access.ActionUpdate, &ref) != access.Allow {
		return nil, httperr.ErrBusiness("order_not_found")
	}

	from := domain.Status(o.Status)
	prevDriver := o.DriverID
	changed := []string{}

	// Status is validated first so an unknown value is always a 400,
	// regardless of other fields.
	var to *domain.Status
	if in.Status != nil {
		st, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		if err := uc.policy.CheckStatus(actor, ref, from, st); err != nil {
			return nil, err
		}
		to = &st
	}

	if in.Driver.Set && !sameID(in.Driver.Value, o.DriverID) {
		if err := uc.policy.CheckDriverChange(actor); err != nil {
			return nil, err
		}
		if in.Driver.Value != nil {
			if err := uc.checkDriver(ctx, *in.Driver.Value); err != nil {
				return nil, err
			}
		}
		o.DriverID = in.Driver.Value
		changed = append(changed, "driver")
	}

	if in.DeparturePoint != nil {
		if err := checkLocation(ctx, uc.repo, *in.DeparturePoint, "departure_point_not_found"); err != nil {
			return nil, err
		}
		o.DeparturePointID = *in.DeparturePoint
		changed = append(changed, "departure_point")
	}
	if in.DestinationPoint != nil {
		if err := checkLocation(ctx, uc.repo, *in.DestinationPoint, "destination_point_not_found"); err != nil {
			return nil, err
		}
		o.DestinationPointID = *in.DestinationPoint
		changed = append(changed, "destination_point")
	}
	if in.CargoType.Set {
		if in.CargoType.Value != nil {
			if err := checkCargoType(ctx, uc.repo, *in.CargoType.Value); err != nil {
				return nil, err
			}
		}
		o.CargoTypeID = in.CargoType.Value
		o.CargoType = nil
		changed = append(changed, "cargo_type")
	}

	if in.Weight != nil {
		if *in.Weight <= 0 {
			return nil, httperr.ErrBusiness("invalid_weight")
		}
		o.Weight = *in.Weight
		changed = append(changed, "weight")
	}
	if in.Description != nil {
		o.Description = *in.Description
		changed = append(changed, "description")
	}
	if in.IsDriverSharingLocation != nil {
		o.IsDriverSharingLocation = *in.IsDriverSharingLocation
		changed = append(changed, "is_driver_sharing_location")
	}

	// Dimensions must be positive like on create; the rest may be zero.
	floats := []struct {
		name     string
		in       dto.Optional[float64]
		dst      **float64
		positive bool
	}{
		{"length", in.Length, &o.Length, true},
		{"width", in.Width, &o.Width, true},
		{"height", in.Height, &o.Height, true},
		{"distance_km", in.DistanceKm, &o.DistanceKm, false},
		{"estimated_time_hours", in.EstimatedTimeHours, &o.EstimatedTimeHours, false},
		{"total_cost", in.TotalCost, &o.TotalCost, false},
	}
	for _, f := range floats {
		if !f.in.Set {
			continue
		}
		if v := f.in.Value; v != nil && (*v < 0 || (f.positive && *v == 0)) {
			return nil, httperr.ErrBusiness("invalid_" + f.name)
		}
		*f.dst = f.in.Value
		changed = append(changed, f.name)
	}

	if in.AcceptedAt.Set {
		o.AcceptedAt = in.AcceptedAt.Value
		changed = append(changed, "accepted_at")
	}
	if in.DeliveredAt.Set {
		o.DeliveredAt = in.DeliveredAt.Value
		changed = append(changed, "delivered_at")
	}

	if to != nil {
		domain.SetStatus(o, *to, timezone.NowIn(uc.tz))
		if *to != from {
			changed = append(changed, "status")
		}
	}

	if err := uc.repo.UpdateOrder(ctx, o); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actor.UserID,
		Action:   audit.ActionOrderUpdated,
		Entity:   "order",
		EntityID: &o.ID,
		Metadata: map[string]any{"fields": changed},
	})

	if to != nil && *to != from {
		uc.audit.Dispatch(audit.Event{
			ActorID:  &actor.UserID,
			Action:   audit.ActionOrderStatusChanged,
			Entity:   "order",
			EntityID: &o.ID,
			Metadata: map[string]string{"from": string(from), "to": string(*to)},
		})
		uc.notify(ctx, statusNotification(o, string(*to)))
	}

	if o.DriverID != nil && !sameID(o.DriverID, prevDriver) {
		uc.notify(ctx, assignmentNotification(o))
	}

	return o, nil
}

func (uc *UpdateOrder) checkDriver(ctx context.Context, id uint) error {
	u, err := uc.repo.GetUser(ctx, id)
	if httperr.IsBusiness(err, "user_not_found") {
		return httperr.ErrBusiness("driver_not_found")
	}
	if err != nil {
		return err
	}
	if u.Role != string(access.RoleDriver) {
		return httperr.ErrBusiness("driver_invalid_role")
	}
	return nil
}

// notify is best effort: the order update has already been committed.
func (uc *UpdateOrder) notify(ctx context.Context, n *models.Notification) {
	if n == nil || uc.notifier == nil {
		return
	}
	if err := uc.notifier.Notify(ctx, n); err != nil {
		uc.log.Warn("notification not stored",
			zap.Uint("user_id", n.UserID),
			zap.String("type", n.Type),
			zap.Error(err),
		)
	}
}

func sameID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
