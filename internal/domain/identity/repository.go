package identity

import (
	"context"
	"time"

	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

type Repository interface {
	// CreateUser assigns a fresh referral code and inserts u atomically.
	CreateUser(ctx context.Context, u *models.User, gen *ReferralGenerator) error

	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByReferralCode(ctx context.Context, code string) (*models.User, error)
	PhoneTaken(ctx context.Context, phone string, exceptID uint) (bool, error)

	UpdateUser(ctx context.Context, u *models.User) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
	ListUsers(ctx context.Context, filter UserFilter, limit, offset int) ([]models.User, int64, error)
}

type UserFilter struct {
	Role   string
	Search string
}
