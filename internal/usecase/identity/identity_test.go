package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/trucking-desk/internal/audit"
	"github.com/BruksfildServices01/trucking-desk/internal/auth"
	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	domain "github.com/BruksfildServices01/trucking-desk/internal/domain/identity"
	"github.com/BruksfildServices01/trucking-desk/internal/dto"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/infra/repository"
	"github.com/BruksfildServices01/trucking-desk/internal/testutil"
	ucidentity "github.com/BruksfildServices01/trucking-desk/internal/usecase/identity"
)

type discard struct{}

func (discard) Dispatch(audit.Event) {}

type env struct {
	repo     *repository.UserGormRepository
	tokens   *auth.TokenIssuer
	register *ucidentity.Register
	sessions *ucidentity.Sessions
}

func newEnv(t *testing.T) *env {
	db := testutil.NewDB(t)
	repo := repository.NewUserGormRepository(db)
	tokens := auth.NewTokenIssuer("secret", time.Hour, 24*time.Hour, auth.NewGormBlacklist(db))
	return &env{
		repo:     repo,
		tokens:   tokens,
		register: ucidentity.NewRegister(repo, domain.NewReferralGenerator(10), tokens, discard{}),
		sessions: ucidentity.NewSessions(repo, tokens, discard{}, "UTC"),
	}
}

func registration(phone string) dto.RegisterRequest {
	return dto.RegisterRequest{
		PhoneNumber:     phone,
		Email:           "Shipper@Example.com",
		Password:        testutil.Password,
		PasswordConfirm: testutil.Password,
		Role:            "DRIVER",
	}
}

func fieldErrors(t *testing.T, err error) httperr.FieldErrors {
	t.Helper()
	var fe httperr.FieldErrors
	require.True(t, errors.As(err, &fe), "expected field errors, got %v", err)
	return fe
}

func TestRegister_CreatesUserAndTokens(t *testing.T) {
	e := newEnv(t)

	u, pair, err := e.register.Execute(context.Background(), registration("+77001000001"))
	require.NoError(t, err)

	assert.Equal(t, "+77001000001", u.Username)
	assert.Equal(t, "shipper@example.com", u.Email)
	assert.Equal(t, "DRIVER", u.Role)
	require.NotNil(t, u.ReferralCode)
	assert.Regexp(t, `^[A-Z0-9]{8}$`, *u.ReferralCode)

	claims, err := e.tokens.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "DRIVER", claims.Role)
}

func TestRegister_Rejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := registration("+77001000002")
	in.PasswordConfirm = "something-else"
	_, _, err := e.register.Execute(ctx, in)
	assert.Contains(t, fieldErrors(t, err), "password")

	in = registration("+77001000002")
	in.Password, in.PasswordConfirm = "12345678", "12345678"
	_, _, err = e.register.Execute(ctx, in)
	assert.NotEmpty(t, fieldErrors(t, err)["password"])

	in = registration("+77001000002")
	in.Role = "ADMIN"
	_, _, err = e.register.Execute(ctx, in)
	assert.Contains(t, fieldErrors(t, err), "role")

	in = registration("+77001000002")
	in.ReferralCode = "ZZZZZZZZ"
	_, _, err = e.register.Execute(ctx, in)
	assert.Contains(t, fieldErrors(t, err), "referral_code")

	_, _, err = e.register.Execute(ctx, registration("+77001000002"))
	require.NoError(t, err)
	_, _, err = e.register.Execute(ctx, registration("+77001000002"))
	assert.Contains(t, fieldErrors(t, err), "phone_number")
}

func TestRegister_ReferralLinksReferrer(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	referrer, _, err := e.register.Execute(ctx, registration("+77001000003"))
	require.NoError(t, err)

	in := registration("+77001000004")
	in.ReferralCode = *referrer.ReferralCode
	u, _, err := e.register.Execute(ctx, in)
	require.NoError(t, err)

	require.NotNil(t, u.ReferredByID)
	assert.Equal(t, referrer.ID, *u.ReferredByID)
	assert.NotEqual(t, *referrer.ReferralCode, *u.ReferralCode)
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	registered, _, err := e.register.Execute(ctx, registration("+77001000005"))
	require.NoError(t, err)

	u, pair, err := e.sessions.Login(ctx, "+77001000005", testutil.Password)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.Equal(t, "DRIVER", u.Role)
	assert.NotNil(t, u.LastLogin)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	_, _, err = e.sessions.Login(ctx, "+77001000005", "wrong-password")
	assert.True(t, httperr.IsBusiness(err, "invalid_credentials"))

	_, _, err = e.sessions.Login(ctx, "+77009999999", testutil.Password)
	assert.True(t, httperr.IsBusiness(err, "invalid_credentials"))
}

func TestLogout_BlocksLaterRefresh(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, pair, err := e.register.Execute(ctx, registration("+77001000006"))
	require.NoError(t, err)

	actor := access.Actor{UserID: u.ID, Role: access.RoleDriver}
	require.NoError(t, e.sessions.Logout(ctx, actor, pair.Refresh))

	_, err = e.sessions.Refresh(ctx, pair.Refresh)
	assert.True(t, httperr.IsBusiness(err, "token_blacklisted"))

	assert.Error(t, e.sessions.Verify(ctx, pair.Refresh))
	assert.NoError(t, e.sessions.Verify(ctx, pair.Access))
}

func TestRefresh_RotatesOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, pair, err := e.register.Execute(ctx, registration("+77001000007"))
	require.NoError(t, err)

	next, err := e.sessions.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, next.Access)

	_, err = e.sessions.Refresh(ctx, pair.Refresh)
	assert.True(t, httperr.IsBusiness(err, "token_blacklisted"))

	_, err = e.sessions.Refresh(ctx, pair.Access)
	assert.True(t, httperr.IsBusiness(err, "token_not_valid"))
}

func TestLogout_ForeignTokenRejected(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, pair, err := e.register.Execute(ctx, registration("+77001000008"))
	require.NoError(t, err)

	err = e.sessions.Logout(ctx, access.Actor{UserID: 9999}, pair.Refresh)
	assert.True(t, httperr.IsBusiness(err, "token_not_valid"))
}
