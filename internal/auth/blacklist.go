package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

// Blacklist stores revoked refresh token ids until they expire. Add returns
// ErrTokenBlacklisted when jti is already listed, so a token is consumed once.
type Blacklist interface {
	Add(ctx context.Context, jti string, userID uint, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// -------- gorm --------

type GormBlacklist struct {
	db *gorm.DB
}

func NewGormBlacklist(db *gorm.DB) *GormBlacklist {
	return &GormBlacklist{db: db}
}

var _ Blacklist = (*GormBlacklist)(nil)

func (b *GormBlacklist) Add(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	row := models.BlacklistedToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}

	res := b.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return fmt.Errorf("blacklist token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTokenBlacklisted
	}
	return nil
}

func (b *GormBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	var row models.BlacklistedToken
	err := b.db.WithContext(ctx).
		Where("jti = ?", jti).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup blacklisted token: %w", err)
	}
	return true, nil
}

// Purge removes rows whose token has already expired.
func (b *GormBlacklist) Purge(ctx context.Context, now time.Time) (int64, error) {
	res := b.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.BlacklistedToken{})
	return res.RowsAffected, res.Error
}

// -------- redis --------

const redisKeyPrefix = "auth:blacklist:"

type RedisBlacklist struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client, now: time.Now}
}

var _ Blacklist = (*RedisBlacklist)(nil)

func (b *RedisBlacklist) Add(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	set, err := b.client.SetNX(ctx, redisKeyPrefix+jti, userID, ttl).Result()
	if err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	if !set {
		return ErrTokenBlacklisted
	}
	return nil
}

func (b *RedisBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, redisKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("lookup blacklisted token: %w", err)
	}
	return n > 0, nil
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
