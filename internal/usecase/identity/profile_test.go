package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	domain "github.com/BruksfildServices01/trucking-desk/internal/domain/identity"
	"github.com/BruksfildServices01/trucking-desk/internal/dto"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/infra/repository"
	"github.com/BruksfildServices01/trucking-desk/internal/testutil"
	ucidentity "github.com/BruksfildServices01/trucking-desk/internal/usecase/identity"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestProfiles_UpdateSelf(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	uc := ucidentity.NewProfiles(repository.NewUserGormRepository(db), discard{})

	me := testutil.CreateUser(t, db, "+77002000001", "DRIVER")
	testutil.CreateUser(t, db, "+77002000002", "SENDER")
	actor := access.Actor{UserID: me.ID, Role: access.RoleDriver}

	got, err := uc.UpdateSelf(ctx, actor, dto.UpdateProfileRequest{
		Email:           strPtr("New@Mail.kz"),
		VehicleType:     strPtr("refrigerated"),
		VehicleCapacity: dto.Some(20.5),
	})
	require.NoError(t, err)
	assert.Equal(t, "new@mail.kz", got.Email)
	assert.Equal(t, "refrigerated", got.VehicleType)
	assert.Equal(t, 20.5, *got.VehicleCapacity)

	_, err = uc.UpdateSelf(ctx, actor, dto.UpdateProfileRequest{PhoneNumber: strPtr("+77002000002")})
	var fe httperr.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "phone_number")
}

func TestProfiles_DirectoryPolicy(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	uc := ucidentity.NewProfiles(repository.NewUserGormRepository(db), discard{})

	admin := testutil.CreateUser(t, db, "+77002000010", "ADMIN")
	sender := testutil.CreateUser(t, db, "+77002000011", "SENDER")
	other := testutil.CreateUser(t, db, "+77002000012", "DRIVER")

	adminActor := access.Actor{UserID: admin.ID, Role: access.RoleAdmin}
	senderActor := access.Actor{UserID: sender.ID, Role: access.RoleSender}

	_, err := uc.Get(ctx, senderActor, other.ID)
	assert.True(t, httperr.IsBusiness(err, "user_not_found"))

	_, _, err = uc.List(ctx, senderActor, domain.UserFilter{}, 20, 0)
	assert.True(t, httperr.IsBusiness(err, "forbidden_role"))

	users, total, err := uc.List(ctx, adminActor, domain.UserFilter{Role: "driver"}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, other.ID, users[0].ID)

	_, err = uc.Update(ctx, senderActor, sender.ID, dto.AdminUpdateUserRequest{Role: strPtr("ADMIN")})
	assert.True(t, httperr.IsBusiness(err, "forbidden_role"))

	got, err := uc.Update(ctx, adminActor, other.ID, dto.AdminUpdateUserRequest{
		IsSubscriptionActive: boolPtr(true),
		Role:                 strPtr("sender"),
	})
	require.NoError(t, err)
	assert.True(t, got.IsSubscriptionActive)
	assert.Equal(t, "SENDER", got.Role)
}
