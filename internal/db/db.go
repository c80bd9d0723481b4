package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/trucking-desk/internal/config"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

// NewDB opens the database named by DATABASE_URL and migrates the schema.
// postgres:// and key=value DSNs use Postgres, sqlite: and file paths use
// the pure Go SQLite driver.
func NewDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	dialector, isSQLite := Dialector(cfg.DBUrl)

	db, err := Open(dialector, !isSQLite)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if isSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("database ready",
		zap.Bool("sqlite", isSQLite),
	)

	return db, nil
}

func Dialector(dsn string) (gorm.Dialector, bool) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"),
		strings.HasPrefix(dsn, "postgresql://"),
		strings.Contains(dsn, "host="):
		return postgres.Open(dsn), false
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), true
	case strings.HasPrefix(dsn, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite:")), true
	}
	return sqlite.Open(dsn), true
}

func Open(dialector gorm.Dialector, prepare bool) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    prepare,
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.DriverLocation{},
		&models.Location{},
		&models.CargoType{},
		&models.Order{},
		&models.TariffSettings{},
		&models.SubscriptionPlan{},
		&models.UserSubscription{},
		&models.Review{},
		&models.Notification{},
		&models.AuditLog{},
		&models.BlacklistedToken{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
