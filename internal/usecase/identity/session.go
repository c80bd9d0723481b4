package identity

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/trucking-desk/internal/audit"
	"github.com/BruksfildServices01/trucking-desk/internal/auth"
	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	domain "github.com/BruksfildServices01/trucking-desk/internal/domain/identity"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
	"github.com/BruksfildServices01/trucking-desk/internal/timezone"
)

// Sessions covers login, refresh rotation, logout and token verification.
type Sessions struct {
	repo   domain.Repository
	tokens *auth.TokenIssuer
	audit  audit.Sink
	tz     string
}

func NewSessions(
	repo domain.Repository,
	tokens *auth.TokenIssuer,
	audit audit.Sink,
	tz string,
) *Sessions {
	return &Sessions{
		repo:   repo,
		tokens: tokens,
		audit:  audit,
		tz:     tz,
	}
}

func (uc *Sessions) Login(
	ctx context.Context,
	phone string,
	password string,
) (*models.User, auth.TokenPair, error) {

	u, err := uc.repo.FindByPhone(ctx, strings.TrimSpace(phone))
	if httperr.IsBusiness(err, "user_not_found") {
		return nil, auth.TokenPair{}, httperr.ErrBusiness("invalid_credentials")
	}
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, auth.TokenPair{}, httperr.ErrBusiness("invalid_credentials")
	}
	if !u.IsActive {
		return nil, auth.TokenPair{}, httperr.ErrBusiness("invalid_credentials")
	}

	now := timezone.NowIn(uc.tz)
	if err := uc.repo.TouchLastLogin(ctx, u.ID, now); err != nil {
		return nil, auth.TokenPair{}, err
	}
	u.LastLogin = &now

	pair, err := uc.tokens.IssuePair(u)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &u.ID,
		Action:   audit.ActionUserLogin,
		Entity:   "user",
		EntityID: &u.ID,
	})

	return u, pair, nil
}

// Refresh consumes a refresh token and returns a rotated pair.
func (uc *Sessions) Refresh(ctx context.Context, raw string) (auth.TokenPair, error) {
	claims, err := uc.parseRefresh(ctx, raw)
	if err != nil {
		return auth.TokenPair{}, err
	}

	u, err := uc.repo.FindByID(ctx, claims.UserID)
	if httperr.IsBusiness(err, "user_not_found") {
		return auth.TokenPair{}, httperr.ErrBusiness("token_not_valid")
	}
	if err != nil {
		return auth.TokenPair{}, err
	}
	if !u.IsActive {
		return auth.TokenPair{}, httperr.ErrBusiness("token_not_valid")
	}

	pair, err := uc.tokens.Rotate(ctx, claims, u)
	if err != nil {
		return auth.TokenPair{}, tokenError(err)
	}
	return pair, nil
}

// Logout blacklists the actor's refresh token.
func (uc *Sessions) Logout(ctx context.Context, actor access.Actor, raw string) error {
	claims, err := uc.parseRefresh(ctx, raw)
	if err != nil {
		return err
	}
	if claims.UserID != actor.UserID {
		return httperr.ErrBusiness("token_not_valid")
	}

	if err := uc.tokens.Revoke(ctx, claims); err != nil {
		return tokenError(err)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actor.UserID,
		Action:   audit.ActionUserLogout,
		Entity:   "user",
		EntityID: &actor.UserID,
	})
	return nil
}

// Verify accepts either token type. Refresh tokens must not be blacklisted.
func (uc *Sessions) Verify(ctx context.Context, raw string) error {
	claims, err := uc.tokens.Parse(raw)
	if err != nil {
		return httperr.ErrBusiness("token_not_valid")
	}
	if claims.TokenType == auth.TokenTypeRefresh {
		if _, err := uc.parseRefresh(ctx, raw); err != nil {
			return err
		}
	}
	return nil
}

func (uc *Sessions) parseRefresh(ctx context.Context, raw string) (*auth.Claims, error) {
	claims, err := uc.tokens.ParseRefresh(ctx, raw)
	if err != nil {
		return nil, tokenError(err)
	}
	return claims, nil
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return httperr.ErrBusiness("token_blacklisted")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrWrongTokenType):
		return httperr.ErrBusiness("token_not_valid")
	}
	return err
}
