package identity

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/trucking-desk/internal/audit"
	"github.com/BruksfildServices01/trucking-desk/internal/auth"
	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	domain "github.com/BruksfildServices01/trucking-desk/internal/domain/identity"
	"github.com/BruksfildServices01/trucking-desk/internal/dto"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

type Register struct {
	repo   domain.Repository
	gen    *domain.ReferralGenerator
	tokens *auth.TokenIssuer
	audit  audit.Sink
}

func NewRegister(
	repo domain.Repository,
	gen *domain.ReferralGenerator,
	tokens *auth.TokenIssuer,
	audit audit.Sink,
) *Register {
	return &Register{
		repo:   repo,
		gen:    gen,
		tokens: tokens,
		audit:  audit,
	}
}

// Execute creates the account and returns it with a fresh token pair.
func (uc *Register) Execute(
	ctx context.Context,
	in dto.RegisterRequest,
) (*models.User, auth.TokenPair, error) {

	phone := strings.TrimSpace(in.PhoneNumber)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	role := access.RoleSender
	if in.Role != "" {
		r, ok := access.ParseRole(in.Role)
		if !ok || r == access.RoleAdmin {
			return nil, auth.TokenPair{}, httperr.NewFieldError("role", "Registration is open to SENDER and DRIVER only.")
		}
		role = r
	}

	if in.Password != in.PasswordConfirm {
		return nil, auth.TokenPair{}, httperr.NewFieldError("password", "Passwords do not match.")
	}

	if errs := domain.ValidatePassword(in.Password, domain.UserAttributes{
		Username:    phone,
		Email:       email,
		PhoneNumber: phone,
	}); len(errs) > 0 {
		return nil, auth.TokenPair{}, httperr.FieldErrors{"password": domain.PasswordMessages(errs)}
	}

	u := &models.User{
		Username:    phone,
		PhoneNumber: phone,
		Email:       email,
		Role:        string(role),
		IsActive:    true,
	}

	if code := strings.TrimSpace(in.ReferralCode); code != "" {
		referrer, err := uc.repo.FindByReferralCode(ctx, code)
		if httperr.IsBusiness(err, "user_not_found") {
			return nil, auth.TokenPair{}, httperr.NewFieldError("referral_code", "Unknown referral code.")
		}
		if err != nil {
			return nil, auth.TokenPair{}, err
		}
		u.ReferredByID = &referrer.ID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	u.PasswordHash = string(hashed)

	if err := uc.repo.CreateUser(ctx, u, uc.gen); err != nil {
		if httperr.IsBusiness(err, "phone_taken") {
			return nil, auth.TokenPair{}, httperr.NewFieldError("phone_number", "A user with this phone number already exists.")
		}
		return nil, auth.TokenPair{}, err
	}

	pair, err := uc.tokens.IssuePair(u)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &u.ID,
		Action:   audit.ActionUserRegistered,
		Entity:   "user",
		EntityID: &u.ID,
		Metadata: map[string]any{"role": u.Role, "referred_by": u.ReferredByID},
	})

	return u, pair, nil
}

// CreateByAdmin provisions an account of any role without issuing tokens.
func (uc *Register) CreateByAdmin(
	ctx context.Context,
	actor access.Actor,
	in dto.AdminCreateUserRequest,
) (*models.User, error) {

	if !actor.IsAdmin() {
		return nil, httperr.ErrBusiness("forbidden_role")
	}

	phone := strings.TrimSpace(in.PhoneNumber)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	role := access.RoleSender
	if in.Role != "" {
		r, ok := access.ParseRole(in.Role)
		if !ok {
			return nil, httperr.NewFieldError("role", "Not a valid role.")
		}
		role = r
	}

	if errs := domain.ValidatePassword(in.Password, domain.UserAttributes{
		Username:    phone,
		Email:       email,
		PhoneNumber: phone,
	}); len(errs) > 0 {
		return nil, httperr.FieldErrors{"password": domain.PasswordMessages(errs)}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Username:     phone,
		PhoneNumber:  phone,
		Email:        email,
		Role:         string(role),
		PasswordHash: string(hashed),
		IsActive:     true,
	}

	if err := uc.repo.CreateUser(ctx, u, uc.gen); err != nil {
		if httperr.IsBusiness(err, "phone_taken") {
			return nil, httperr.NewFieldError("phone_number", "A user with this phone number already exists.")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actor.UserID,
		Action:   audit.ActionUserRegistered,
		Entity:   "user",
		EntityID: &u.ID,
		Metadata: map[string]any{"role": u.Role, "by_admin": true},
	})

	return u, nil
}
