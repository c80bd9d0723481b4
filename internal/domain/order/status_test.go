package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

func uintPtr(v uint) *uint { return &v }

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, st)

	_, err = ParseStatus("LOST")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusAccepted))
	assert.True(t, CanTransition(StatusAccepted, StatusInProgress))
	assert.True(t, CanTransition(StatusInProgress, StatusDelivered))

	for _, from := range []Status{StatusPending, StatusAccepted, StatusInProgress} {
		assert.True(t, CanTransition(from, StatusCancelled), from)
	}

	assert.False(t, CanTransition(StatusPending, StatusDelivered))
	assert.False(t, CanTransition(StatusDelivered, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusPending))
	assert.False(t, CanTransition(StatusDelivered, StatusInProgress))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestTransitionPolicy_PermissiveAllowsAnyKnownStatus(t *testing.T) {
	p := TransitionPolicy{}
	sender := access.Actor{UserID: 1, Role: access.RoleSender}

	err := p.CheckStatus(sender, access.OrderRef{SenderID: 1}, StatusPending, StatusDelivered)
	assert.NoError(t, err)
	assert.NoError(t, p.CheckDriverChange(sender))
}

func TestTransitionPolicy_Strict(t *testing.T) {
	p := TransitionPolicy{Strict: true}
	ref := access.OrderRef{SenderID: 1, DriverID: uintPtr(2)}

	sender := access.Actor{UserID: 1, Role: access.RoleSender}
	driver := access.Actor{UserID: 2, Role: access.RoleDriver}
	otherDriver := access.Actor{UserID: 3, Role: access.RoleDriver}
	admin := access.Actor{UserID: 4, Role: access.RoleAdmin}

	assert.NoError(t, p.CheckStatus(driver, ref, StatusPending, StatusAccepted))
	assert.NoError(t, p.CheckStatus(driver, ref, StatusInProgress, StatusDelivered))
	assert.NoError(t, p.CheckStatus(sender, ref, StatusAccepted, StatusCancelled))
	assert.NoError(t, p.CheckStatus(admin, ref, StatusPending, StatusCancelled))
	assert.NoError(t, p.CheckStatus(sender, ref, StatusPending, StatusPending))

	err := p.CheckStatus(sender, ref, StatusInProgress, StatusDelivered)
	assert.True(t, httperr.IsBusiness(err, "status_change_forbidden"))

	err = p.CheckStatus(otherDriver, ref, StatusPending, StatusAccepted)
	assert.True(t, httperr.IsBusiness(err, "status_change_forbidden"))

	err = p.CheckStatus(admin, ref, StatusPending, StatusDelivered)
	assert.True(t, httperr.IsBusiness(err, "invalid_status_transition"))

	err = p.CheckStatus(driver, ref, StatusDelivered, StatusCancelled)
	assert.True(t, httperr.IsBusiness(err, "invalid_status_transition"))

	assert.True(t, httperr.IsBusiness(p.CheckDriverChange(sender), "driver_change_forbidden"))
	assert.NoError(t, p.CheckDriverChange(admin))
}

func TestSetStatus_StampsMilestones(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	o := &models.Order{Status: string(StatusPending)}

	SetStatus(o, StatusAccepted, now)
	require.NotNil(t, o.AcceptedAt)
	assert.Equal(t, now, *o.AcceptedAt)
	assert.Nil(t, o.DeliveredAt)

	supplied := now.Add(-time.Hour)
	o.DeliveredAt = &supplied
	SetStatus(o, StatusDelivered, now)
	assert.Equal(t, supplied, *o.DeliveredAt)
	assert.Equal(t, string(StatusDelivered), o.Status)
}
