package routes_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/trucking-desk/internal/config"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
	"github.com/BruksfildServices01/trucking-desk/internal/testutil"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func orderPath(id uint) string {
	return "/api/v1/cargo/requests/" + itoa(id) + "/"
}

func createOrderBody(t *testing.T, app *testutil.App) map[string]any {
	t.Helper()

	from := testutil.CreateLocation(t, app.DB, "Shymkent")
	to := testutil.CreateLocation(t, app.DB, "Karaganda")

	return map[string]any{
		"departure_point":   from.ID,
		"destination_point": to.ID,
		"weight":            850.5,
		"description":       "Refrigerated produce",
		"distance_km":       1050,
	}
}

func TestOrders_SenderCreateIgnoresClientOwnership(t *testing.T) {
	app := testutil.NewApp(t)
	sender := testutil.CreateUser(t, app.DB, "+77020000001", "SENDER")
	other := testutil.CreateUser(t, app.DB, "+77020000002", "SENDER")

	body := createOrderBody(t, app)
	body["sender"] = other.ID
	body["status"] = "DELIVERED"

	w := app.Do(t, http.MethodPost, "/api/v1/cargo/requests/", app.Token(t, sender), body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	got := testutil.Decode(t, w)
	assert.EqualValues(t, sender.ID, got["sender"])
	assert.Equal(t, "PENDING", got["status"])
	assert.Equal(t, "Shymkent", got["departure_point"].(map[string]any)["city_name"])

	var logs int64
	require.NoError(t, app.DB.Model(&models.AuditLog{}).Where("action = ?", "order_created").Count(&logs).Error)
	assert.EqualValues(t, 1, logs)
}

func TestOrders_OnlySendersCreate(t *testing.T) {
	app := testutil.NewApp(t)
	driver := testutil.CreateUser(t, app.DB, "+77020000010", "DRIVER")
	admin := testutil.CreateUser(t, app.DB, "+77020000011", "ADMIN")
	body := createOrderBody(t, app)

	for _, u := range []*models.User{driver, admin} {
		w := app.Do(t, http.MethodPost, "/api/v1/cargo/requests/", app.Token(t, u), body)
		assert.Equal(t, http.StatusForbidden, w.Code, u.Role)
	}

	w := app.Do(t, http.MethodPost, "/api/v1/cargo/requests/", app.Token(t, driver), map[string]any{})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrders_CreateValidation(t *testing.T) {
	app := testutil.NewApp(t)
	sender := testutil.CreateUser(t, app.DB, "+77020000020", "SENDER")
	token := app.Token(t, sender)

	body := createOrderBody(t, app)
	body["weight"] = 0
	w := app.Do(t, http.MethodPost, "/api/v1/cargo/requests/", token, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, testutil.Decode(t, w)["fields"], "weight")

	body = createOrderBody(t, app)
	body["departure_point"] = 9999
	w = app.Do(t, http.MethodPost, "/api/v1/cargo/requests/", token, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, testutil.Decode(t, w)["fields"], "departure_point")

	body = createOrderBody(t, app)
	body["cargo_type"] = 9999
	w = app.Do(t, http.MethodPost, "/api/v1/cargo/requests/", token, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, testutil.Decode(t, w)["fields"], "cargo_type")
}

func TestOrders_ListIsScopedByRole(t *testing.T) {
	app := testutil.NewApp(t)
	alice := testutil.CreateUser(t, app.DB, "+77020000030", "SENDER")
	bob := testutil.CreateUser(t, app.DB, "+77020000031", "SENDER")
	driver := testutil.CreateUser(t, app.DB, "+77020000032", "DRIVER")
	admin := testutil.CreateUser(t, app.DB, "+77020000033", "ADMIN")

	testutil.CreateOrder(t, app.DB, alice, nil)
	testutil.CreateOrder(t, app.DB, alice, driver)
	testutil.CreateOrder(t, app.DB, bob, nil)

	cases := []struct {
		user  *models.User
		count int
	}{
		{alice, 2},
		{bob, 1},
		{driver, 1},
		{admin, 3},
	}

	for _, tc := range cases {
		w := app.Do(t, http.MethodGet, "/api/v1/cargo/requests/", app.Token(t, tc.user), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, tc.count, testutil.Decode(t, w)["count"], tc.user.Role)
	}
}

func TestOrders_ForeignOrderIsHidden(t *testing.T) {
	app := testutil.NewApp(t)
	alice := testutil.CreateUser(t, app.DB, "+77020000040", "SENDER")
	bob := testutil.CreateUser(t, app.DB, "+77020000041", "SENDER")
	driver := testutil.CreateUser(t, app.DB, "+77020000042", "DRIVER")
	o := testutil.CreateOrder(t, app.DB, alice, nil)

	for _, u := range []*models.User{bob, driver} {
		token := app.Token(t, u)

		w := app.Do(t, http.MethodGet, orderPath(o.ID), token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = app.Do(t, http.MethodPatch, orderPath(o.ID), token, map[string]any{"description": "mine now"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "order_not_found", testutil.Decode(t, w)["error"])

		w = app.Do(t, http.MethodPatch, orderPath(o.ID), token, map[string]any{"status": 5})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "order_not_found", testutil.Decode(t, w)["error"])
	}

	var reloaded models.Order
	require.NoError(t, app.DB.First(&reloaded, o.ID).Error)
	assert.Equal(t, "pallets", reloaded.Description)
}

func TestOrders_AssignDriverThenDeliver(t *testing.T) {
	app := testutil.NewApp(t)
	sender := testutil.CreateUser(t, app.DB, "+77020000050", "SENDER")
	driver := testutil.CreateUser(t, app.DB, "+77020000051", "DRIVER")
	admin := testutil.CreateUser(t, app.DB, "+77020000052", "ADMIN")
	o := testutil.CreateOrder(t, app.DB, sender, nil)

	w := app.Do(t, http.MethodPatch, orderPath(o.ID), app.Token(t, admin), map[string]any{"driver": driver.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, driver.ID, testutil.Decode(t, w)["driver"])

	w = app.Do(t, http.MethodPatch, orderPath(o.ID), app.Token(t, driver), map[string]any{"status": "DELIVERED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := testutil.Decode(t, w)
	assert.Equal(t, "DELIVERED", got["status"])
	assert.NotNil(t, got["delivered_at"])

	var notes []models.Notification
	require.NoError(t, app.DB.Order("id").Find(&notes).Error)
	require.Len(t, notes, 2)
	assert.Equal(t, driver.ID, notes[0].UserID)
	assert.Equal(t, models.NotificationNewOrder, notes[0].Type)
	assert.Equal(t, sender.ID, notes[1].UserID)
	assert.Equal(t, models.NotificationOrderDelivered, notes[1].Type)

	var changes []models.AuditLog
	require.NoError(t, app.DB.Where("action = ?", "order_status_changed").Find(&changes).Error)
	require.Len(t, changes, 1)
	assert.Contains(t, changes[0].Metadata, "DELIVERED")
}

func TestOrders_DriverMustHaveDriverRole(t *testing.T) {
	app := testutil.NewApp(t)
	sender := testutil.CreateUser(t, app.DB, "+77020000060", "SENDER")
	o := testutil.CreateOrder(t, app.DB, sender, nil)

	w := app.Do(t, http.MethodPatch, orderPath(o.ID), app.Token(t, sender), map[string]any{"driver": sender.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, testutil.Decode(t, w)["fields"], "driver")

	w = app.Do(t, http.MethodPatch, orderPath(o.ID), app.Token(t, sender), map[string]any{"status": "LOST"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Zero dimensions are rejected on update as they are on create.
	for _, field := range []string{"length", "width", "height"} {
		w = app.Do(t, http.MethodPatch, orderPath(o.ID), app.Token(t, sender), map[string]any{field: 0})
		require.Equal(t, http.StatusBadRequest, w.Code, field)
		assert.Contains(t, testutil.Decode(t, w)["fields"], field)
	}
}

func TestOrders_StrictTransitions(t *testing.T) {
	app := testutil.NewApp(t, func(c *config.Config) { c.StrictOrderTransitions = true })
	sender := testutil.CreateUser(t, app.DB, "+77020000070", "SENDER")
	driver := testutil.CreateUser(t, app.DB, "+77020000071", "DRIVER")
	o := testutil.CreateOrder(t, app.DB, sender, driver)

	w := app.Do(t, http.MethodPatch, orderPath(o.ID), app.Token(t, sender), map[string]any{"status": "ACCEPTED"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "status_change_forbidden", testutil.Decode(t, w)["error"])

	w = app.Do(t, http.MethodPatch, orderPath(o.ID), app.Token(t, driver), map[string]any{"status": "DELIVERED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_status_transition", testutil.Decode(t, w)["error"])

	w = app.Do(t, http.MethodPatch, orderPath(o.ID), app.Token(t, driver), map[string]any{"status": "ACCEPTED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotNil(t, testutil.Decode(t, w)["accepted_at"])

	w = app.Do(t, http.MethodPatch, orderPath(o.ID), app.Token(t, sender), map[string]any{"driver": nil})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrders_Pagination(t *testing.T) {
	app := testutil.NewApp(t, func(c *config.Config) { c.PageSize = 2 })
	sender := testutil.CreateUser(t, app.DB, "+77020000080", "SENDER")
	token := app.Token(t, sender)

	for i := 0; i < 3; i++ {
		testutil.CreateOrder(t, app.DB, sender, nil)
	}

	w := app.Do(t, http.MethodGet, "/api/v1/cargo/requests/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := testutil.Decode(t, w)
	assert.EqualValues(t, 3, first["count"])
	assert.Len(t, first["results"], 2)
	assert.Equal(t, "http://example.com/api/v1/cargo/requests/?page=2", first["next"])
	assert.Nil(t, first["previous"])

	w = app.Do(t, http.MethodGet, "/api/v1/cargo/requests/?page=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := testutil.Decode(t, w)
	assert.Len(t, second["results"], 1)
	assert.Nil(t, second["next"])
	assert.Equal(t, "http://example.com/api/v1/cargo/requests/", second["previous"])

	for _, page := range []string{"3", "0", "abc", "4611686018427387905"} {
		w = app.Do(t, http.MethodGet, "/api/v1/cargo/requests/?page="+page, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, page)
		assert.Equal(t, "invalid_page", testutil.Decode(t, w)["error"])
	}
}

func TestOrders_ListFilters(t *testing.T) {
	app := testutil.NewApp(t)
	sender := testutil.CreateUser(t, app.DB, "+77020000090", "SENDER")
	token := app.Token(t, sender)

	first := testutil.CreateOrder(t, app.DB, sender, nil)
	testutil.CreateOrder(t, app.DB, sender, nil)
	require.NoError(t, app.DB.Model(first).UpdateColumn("status", "CANCELLED").Error)

	w := app.Do(t, http.MethodGet, "/api/v1/cargo/requests/?status=cancelled", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, testutil.Decode(t, w)["count"])

	w = app.Do(t, http.MethodGet, "/api/v1/cargo/requests/?departure_point="+itoa(first.DeparturePointID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, testutil.Decode(t, w)["count"])

	w = app.Do(t, http.MethodGet, "/api/v1/cargo/requests/?status=LOST", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
