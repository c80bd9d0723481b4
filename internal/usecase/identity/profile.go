package identity

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/trucking-desk/internal/audit"
	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	domain "github.com/BruksfildServices01/trucking-desk/internal/domain/identity"
	"github.com/BruksfildServices01/trucking-desk/internal/dto"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

type Profiles struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewProfiles(repo domain.Repository, audit audit.Sink) *Profiles {
	return &Profiles{repo: repo, audit: audit}
}

// Get applies the user directory policy: other users' records are hidden.
func (uc *Profiles) Get(ctx context.Context, actor access.Actor, id uint) (*models.User, error) {
	if access.AuthorizeUser(actor, access.ActionRetrieve, id) != access.Allow {
		return nil, httperr.ErrBusiness("user_not_found")
	}
	return uc.repo.FindByID(ctx, id)
}

func (uc *Profiles) List(
	ctx context.Context,
	actor access.Actor,
	filter domain.UserFilter,
	limit, offset int,
) ([]models.User, int64, error) {
	if access.AuthorizeUser(actor, access.ActionList, 0) != access.Allow {
		return nil, 0, httperr.ErrBusiness("forbidden_role")
	}
	if filter.Role != "" {
		r, ok := access.ParseRole(filter.Role)
		if !ok {
			return nil, 0, httperr.NewFieldError("role", "Not a valid role.")
		}
		filter.Role = string(r)
	}
	return uc.repo.ListUsers(ctx, filter, limit, offset)
}

// UpdateSelf changes the fields a user controls on their own account.
func (uc *Profiles) UpdateSelf(
	ctx context.Context,
	actor access.Actor,
	in dto.UpdateProfileRequest,
) (*models.User, error) {

	u, err := uc.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	changed, err := uc.applyProfile(ctx, u, in)
	if err != nil {
		return nil, err
	}

	return u, uc.save(ctx, actor, u, changed)
}

// Update is the directory PATCH. Admins may also change role, subscription
// and active flags; a user targeting themselves gets the self rules.
func (uc *Profiles) Update(
	ctx context.Context,
	actor access.Actor,
	id uint,
	in dto.AdminUpdateUserRequest,
) (*models.User, error) {

	u, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	adminOnly := in.Role != nil || in.IsSubscriptionActive != nil || in.IsActive != nil
	if adminOnly && !actor.IsAdmin() {
		return nil, httperr.ErrBusiness("forbidden_role")
	}

	changed, err := uc.applyProfile(ctx, u, in.UpdateProfileRequest)
	if err != nil {
		return nil, err
	}

	if in.Role != nil {
		r, ok := access.ParseRole(*in.Role)
		if !ok {
			return nil, httperr.NewFieldError("role", "Not a valid role.")
		}
		u.Role = string(r)
		changed = append(changed, "role")
	}
	if in.IsSubscriptionActive != nil {
		u.IsSubscriptionActive = *in.IsSubscriptionActive
		changed = append(changed, "is_subscription_active")
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
		changed = append(changed, "is_active")
	}

	return u, uc.save(ctx, actor, u, changed)
}

func (uc *Profiles) applyProfile(
	ctx context.Context,
	u *models.User,
	in dto.UpdateProfileRequest,
) ([]string, error) {

	var changed []string

	if in.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*in.Email))
		changed = append(changed, "email")
	}

	if in.PhoneNumber != nil && strings.TrimSpace(*in.PhoneNumber) != u.PhoneNumber {
		phone := strings.TrimSpace(*in.PhoneNumber)
		taken, err := uc.repo.PhoneTaken(ctx, phone, u.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, httperr.NewFieldError("phone_number", "A user with this phone number already exists.")
		}
		u.PhoneNumber = phone
		u.Username = phone
		changed = append(changed, "phone_number")
	}

	if in.DriverLicense != nil {
		u.DriverLicense = *in.DriverLicense
		changed = append(changed, "driver_license")
	}
	if in.VehicleType != nil {
		u.VehicleType = *in.VehicleType
		changed = append(changed, "vehicle_type")
	}
	if in.VehicleCapacity.Set {
		if in.VehicleCapacity.Value != nil && *in.VehicleCapacity.Value < 0 {
			return nil, httperr.NewFieldError("vehicle_capacity", "Ensure this value is greater than or equal to 0.")
		}
		u.VehicleCapacity = in.VehicleCapacity.Value
		changed = append(changed, "vehicle_capacity")
	}

	return changed, nil
}

func (uc *Profiles) save(ctx context.Context, actor access.Actor, u *models.User, changed []string) error {
	if len(changed) == 0 {
		return nil
	}

	if err := uc.repo.UpdateUser(ctx, u); err != nil {
		if httperr.IsBusiness(err, "phone_taken") {
			return httperr.NewFieldError("phone_number", "A user with this phone number already exists.")
		}
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actor.UserID,
		Action:   audit.ActionUserUpdated,
		Entity:   "user",
		EntityID: &u.ID,
		Metadata: map[string]any{"fields": changed},
	})
	return nil
}
