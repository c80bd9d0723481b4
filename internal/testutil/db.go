package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	dbpkg "github.com/BruksfildServices01/trucking-desk/internal/db"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

const Password = "Cargo-Route-91"

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := dbpkg.Open(sqlite.Open(dsn), false)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dbpkg.Migrate(db))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

var passwordHash string

func hash(t testing.TB) string {
	if passwordHash == "" {
		h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
		require.NoError(t, err)
		passwordHash = string(h)
	}
	return passwordHash
}

// CreateUser inserts an active user whose password is Password.
func CreateUser(t testing.TB, db *gorm.DB, phone, role string) *models.User {
	t.Helper()

	code := strings.ToUpper(uuid.NewString()[:8])

	u := &models.User{
		Username:     phone,
		PhoneNumber:  phone,
		Email:        phone[1:] + "@example.com",
		PasswordHash: hash(t),
		Role:         role,
		IsActive:     true,
		ReferralCode: &code,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateLocation(t testing.TB, db *gorm.DB, city string) *models.Location {
	t.Helper()

	l := &models.Location{CityName: city}
	require.NoError(t, db.Create(l).Error)
	return l
}

func CreateOrder(t testing.TB, db *gorm.DB, sender *models.User, driver *models.User) *models.Order {
	t.Helper()

	from := CreateLocation(t, db, "Almaty")
	to := CreateLocation(t, db, "Astana")

	o := &models.Order{
		SenderID:           sender.ID,
		DeparturePointID:   from.ID,
		DestinationPointID: to.ID,
		Weight:             1200,
		Description:        "pallets",
		Status:             "PENDING",
	}
	if driver != nil {
		o.DriverID = &driver.ID
	}
	require.NoError(t, db.Omit("Sender", "Driver", "DeparturePoint", "DestinationPoint", "CargoType").Create(o).Error)
	return o
}
