package order

import (
	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
)

// TransitionPolicy decides who may move an order between statuses. When
// Strict is false any actor with access to the order may write any known
// status, which is how the API behaved historically.
type TransitionPolicy struct {
	Strict bool
}

func (p TransitionPolicy) CheckStatus(a access.Actor, ref access.OrderRef, from, to Status) error {
	if from == to || !p.Strict {
		return nil
	}

	if !CanTransition(from, to) {
		return httperr.ErrBusiness("invalid_status_transition")
	}

	if a.IsAdmin() {
		return nil
	}

	switch a.Role {
	case access.RoleDriver:
		if ref.DriverID != nil && *ref.DriverID == a.UserID && to != StatusCancelled {
			return nil
		}
	case access.RoleSender:
		if ref.SenderID == a.UserID && to == StatusCancelled {
			return nil
		}
	}

	return httperr.ErrBusiness("status_change_forbidden")
}

// CheckDriverChange guards reassignment of the order's driver.
func (p TransitionPolicy) CheckDriverChange(a access.Actor) error {
	if !p.Strict || a.IsAdmin() {
		return nil
	}
	return httperr.ErrBusiness("driver_change_forbidden")
}
