package order_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/trucking-desk/internal/audit"
	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	domain "github.com/BruksfildServices01/trucking-desk/internal/domain/order"
	"github.com/BruksfildServices01/trucking-desk/internal/dto"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/infra/repository"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
	"github.com/BruksfildServices01/trucking-desk/internal/testutil"
	ucorder "github.com/BruksfildServices01/trucking-desk/internal/usecase/order"
)

type recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recorder) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}

type fixture struct {
	db     *gorm.DB
	repo   *repository.OrderGormRepository
	sink   *recorder
	sender *models.User
	driver *models.User
	admin  access.Actor
	from   *models.Location
	to     *models.Location
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	admin := testutil.CreateUser(t, db, "+70000000201", "ADMIN")
	return &fixture{
		db:     db,
		repo:   repository.NewOrderGormRepository(db),
		sink:   &recorder{},
		sender: testutil.CreateUser(t, db, "+70000000202", "SENDER"),
		driver: testutil.CreateUser(t, db, "+70000000203", "DRIVER"),
		admin:  access.Actor{UserID: admin.ID, Role: access.RoleAdmin},
		from:   testutil.CreateLocation(t, db, "Almaty"),
		to:     testutil.CreateLocation(t, db, "Karaganda"),
	}
}

func (f *fixture) senderActor() access.Actor {
	return access.Actor{UserID: f.sender.ID, Role: access.RoleSender}
}

func (f *fixture) driverActor() access.Actor {
	return access.Actor{UserID: f.driver.ID, Role: access.RoleDriver}
}

func (f *fixture) update(strict bool) *ucorder.UpdateOrder {
	return ucorder.NewUpdateOrder(
		f.repo,
		domain.TransitionPolicy{Strict: strict},
		f.sink,
		repository.NewNotificationGormRepository(f.db),
		zap.NewNop(),
		"UTC",
	)
}

func (f *fixture) create(t *testing.T) *models.Order {
	o, err := ucorder.NewCreateOrder(f.repo, f.sink).Execute(context.Background(), f.senderActor(), dto.CreateOrderRequest{
		DeparturePoint:   f.from.ID,
		DestinationPoint: f.to.ID,
		Weight:           800,
	})
	require.NoError(t, err)
	return o
}

func TestCreateOrder_SenderOwnsPendingOrder(t *testing.T) {
	f := newFixture(t)

	o := f.create(t)

	assert.Equal(t, f.sender.ID, o.SenderID)
	assert.Equal(t, "PENDING", o.Status)
	assert.Nil(t, o.DriverID)
	assert.Equal(t, "Karaganda", o.DestinationPoint.CityName)
	assert.Equal(t, []string{audit.ActionOrderCreated}, f.sink.actions())
}

func TestCreateOrder_NonSendersForbidden(t *testing.T) {
	f := newFixture(t)
	uc := ucorder.NewCreateOrder(f.repo, f.sink)
	in := dto.CreateOrderRequest{DeparturePoint: f.from.ID, DestinationPoint: f.to.ID, Weight: 1}

	for _, actor := range []access.Actor{f.driverActor(), f.admin} {
		_, err := uc.Execute(context.Background(), actor, in)
		assert.True(t, httperr.IsBusiness(err, "forbidden_role"))
	}
}

func TestCreateOrder_UnknownReferences(t *testing.T) {
	f := newFixture(t)
	uc := ucorder.NewCreateOrder(f.repo, f.sink)
	missing := uint(999)

	_, err := uc.Execute(context.Background(), f.senderActor(), dto.CreateOrderRequest{
		DeparturePoint: missing, DestinationPoint: f.to.ID, Weight: 1,
	})
	assert.True(t, httperr.IsBusiness(err, "departure_point_not_found"))

	_, err = uc.Execute(context.Background(), f.senderActor(), dto.CreateOrderRequest{
		DeparturePoint: f.from.ID, DestinationPoint: f.to.ID, Weight: 1, CargoType: &missing,
	})
	assert.True(t, httperr.IsBusiness(err, "cargo_type_not_found"))
}

func TestUpdateOrder_AssignThenDeliver(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.create(t)
	uc := f.update(false)

	_, err := uc.Execute(ctx, f.admin, o.ID, dto.UpdateOrderRequest{Driver: dto.Some(f.driver.ID)})
	require.NoError(t, err)

	deliveredAt := time.Date(2025, 4, 2, 15, 30, 0, 0, time.UTC)
	status := "DELIVERED"
	got, err := uc.Execute(ctx, f.driverActor(), o.ID, dto.UpdateOrderRequest{
		Status:      &status,
		DeliveredAt: dto.Some(deliveredAt),
	})
	require.NoError(t, err)

	assert.Equal(t, "DELIVERED", got.Status)
	require.NotNil(t, got.DeliveredAt)
	assert.True(t, got.DeliveredAt.Equal(deliveredAt))
	assert.Contains(t, f.sink.actions(), audit.ActionOrderStatusChanged)

	var notes []models.Notification
	require.NoError(t, f.db.Order("id").Find(&notes).Error)
	require.Len(t, notes, 2)
	assert.Equal(t, models.NotificationNewOrder, notes[0].Type)
	assert.Equal(t, f.driver.ID, notes[0].UserID)
	assert.Equal(t, models.NotificationOrderDelivered, notes[1].Type)
	assert.Equal(t, f.sender.ID, notes[1].UserID)
}

func TestUpdateOrder_StampsAcceptedAt(t *testing.T) {
	f := newFixture(t)
	o := f.create(t)

	status := "accepted"
	got, err := f.update(false).Execute(context.Background(), f.senderActor(), o.ID, dto.UpdateOrderRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "ACCEPTED", got.Status)
	require.NotNil(t, got.AcceptedAt)
	assert.WithinDuration(t, time.Now(), *got.AcceptedAt, time.Minute)
}

func TestUpdateOrder_OutOfScopeIsNotFound(t *testing.T) {
	f := newFixture(t)
	o := f.create(t)
	stranger := testutil.CreateUser(t, f.db, "+70000000299", "SENDER")

	desc := "hijack"
	_, err := f.update(false).Execute(context.Background(),
		access.Actor{UserID: stranger.ID, Role: access.RoleSender}, o.ID,
		dto.UpdateOrderRequest{Description: &desc})
	assert.True(t, httperr.IsBusiness(err, "order_not_found"))

	_, err = f.update(false).Execute(context.Background(), f.driverActor(), o.ID, dto.UpdateOrderRequest{Description: &desc})
	assert.True(t, httperr.IsBusiness(err, "order_not_found"))
}

func TestUpdateOrder_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.create(t)
	uc := f.update(false)

	bad := "LOST"
	_, err := uc.Execute(ctx, f.admin, o.ID, dto.UpdateOrderRequest{Status: &bad})
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))

	_, err = uc.Execute(ctx, f.admin, o.ID, dto.UpdateOrderRequest{Driver: dto.Some(f.sender.ID)})
	assert.True(t, httperr.IsBusiness(err, "driver_invalid_role"))

	_, err = uc.Execute(ctx, f.admin, o.ID, dto.UpdateOrderRequest{Driver: dto.Some(uint(4242))})
	assert.True(t, httperr.IsBusiness(err, "driver_not_found"))

	negative := -1.0
	_, err = uc.Execute(ctx, f.admin, o.ID, dto.UpdateOrderRequest{TotalCost: dto.Some(negative)})
	assert.True(t, httperr.IsBusiness(err, "invalid_total_cost"))

	_, err = uc.Execute(ctx, f.admin, o.ID, dto.UpdateOrderRequest{Length: dto.Some(0.0)})
	assert.True(t, httperr.IsBusiness(err, "invalid_length"))

	got, err := uc.Execute(ctx, f.admin, o.ID, dto.UpdateOrderRequest{TotalCost: dto.Some(0.0)})
	require.NoError(t, err)
	require.NotNil(t, got.TotalCost)
	assert.Zero(t, *got.TotalCost)
}

func TestUpdateOrder_StrictTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.create(t)
	uc := f.update(true)

	_, err := uc.Execute(ctx, f.senderActor(), o.ID, dto.UpdateOrderRequest{Driver: dto.Some(f.driver.ID)})
	assert.True(t, httperr.IsBusiness(err, "driver_change_forbidden"))

	_, err = uc.Execute(ctx, f.admin, o.ID, dto.UpdateOrderRequest{Driver: dto.Some(f.driver.ID)})
	require.NoError(t, err)

	delivered := "DELIVERED"
	_, err = uc.Execute(ctx, f.driverActor(), o.ID, dto.UpdateOrderRequest{Status: &delivered})
	assert.True(t, httperr.IsBusiness(err, "invalid_status_transition"))

	for _, s := range []string{"ACCEPTED", "IN_PROGRESS", "DELIVERED"} {
		st := s
		got, err := uc.Execute(ctx, f.driverActor(), o.ID, dto.UpdateOrderRequest{Status: &st})
		require.NoError(t, err, s)
		assert.Equal(t, s, got.Status)
	}

	cancelled := "CANCELLED"
	_, err = uc.Execute(ctx, f.senderActor(), o.ID, dto.UpdateOrderRequest{Status: &cancelled})
	assert.True(t, httperr.IsBusiness(err, "invalid_status_transition"))
}

func TestListOrders_ScopedByRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mine := f.create(t)
	f.create(t)

	_, err := f.update(false).Execute(ctx, f.admin, mine.ID, dto.UpdateOrderRequest{Driver: dto.Some(f.driver.ID)})
	require.NoError(t, err)

	list := ucorder.NewListOrders(f.repo)

	_, total, err := list.Execute(ctx, f.senderActor(), domain.ListFilter{}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	orders, total, err := list.Execute(ctx, f.driverActor(), domain.ListFilter{}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, mine.ID, orders[0].ID)

	_, total, err = list.Execute(ctx, f.admin, domain.ListFilter{}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, _, err = list.Execute(ctx, f.admin, domain.ListFilter{Status: "bogus"}, 20, 0)
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}
