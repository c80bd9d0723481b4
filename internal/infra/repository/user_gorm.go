package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/trucking-desk/internal/domain/identity"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

var _ identity.Repository = (*UserGormRepository)(nil)

// --------------------------------------------------
// Create
// --------------------------------------------------

func (r *UserGormRepository) CreateUser(
	ctx context.Context,
	u *models.User,
	gen *identity.ReferralGenerator,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := phoneTaken(tx, u.PhoneNumber, 0)
		if err != nil {
			return err
		}
		if taken {
			return httperr.ErrBusiness("phone_taken")
		}

		codeExists := func(ctx context.Context, code string) (bool, error) {
			return referralTaken(tx, code)
		}

		for attempt := 0; attempt < gen.MaxAttempts(); attempt++ {
			code, err := gen.Generate(ctx, codeExists)
			if err != nil {
				return err
			}
			u.ReferralCode = &code

			if err := tx.SavePoint("create_user").Error; err != nil {
				return err
			}

			err = tx.Omit(clause.Associations).Create(u).Error
			if err == nil {
				return nil
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("create user: %w", err)
			}

			if rbErr := tx.RollbackTo("create_user").Error; rbErr != nil {
				return rbErr
			}
			u.ID = 0

			if taken, _ := phoneTaken(tx, u.PhoneNumber, 0); taken {
				return httperr.ErrBusiness("phone_taken")
			}
			if taken, _ := referralTaken(tx, code); !taken {
				return fmt.Errorf("create user: %w", err)
			}
			// Another insert took the code between the check and ours.
		}

		return identity.ErrReferralExhausted
	})
}

func phoneTaken(db *gorm.DB, phone string, exceptID uint) (bool, error) {
	var count int64
	q := db.Model(&models.User{}).
		Where("phone_number = ? OR username = ?", phone, phone)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func referralTaken(db *gorm.DB, code string) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).
		Where("referral_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Lookup
// --------------------------------------------------

func (r *UserGormRepository) find(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("user_not_found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserGormRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.find(ctx, "id = ?", id)
}

func (r *UserGormRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.find(ctx, "phone_number = ?", phone)
}

func (r *UserGormRepository) FindByReferralCode(ctx context.Context, code string) (*models.User, error) {
	return r.find(ctx, "referral_code = ?", strings.ToUpper(code))
}

func (r *UserGormRepository) PhoneTaken(ctx context.Context, phone string, exceptID uint) (bool, error) {
	return phoneTaken(r.db.WithContext(ctx), phone, exceptID)
}

// --------------------------------------------------
// Update
// --------------------------------------------------

func (r *UserGormRepository) UpdateUser(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return httperr.ErrBusiness("phone_taken")
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserGormRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login", at).Error
}

func (r *UserGormRepository) ListUsers(
	ctx context.Context,
	filter identity.UserFilter,
	limit int,
	offset int,
) ([]models.User, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.User{})

	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR phone_number LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var users []models.User
	if err := q.Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}
