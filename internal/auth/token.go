package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrWrongTokenType   = errors.New("wrong token type")
	ErrTokenBlacklisted = errors.New("token is blacklisted")
)

type Claims struct {
	UserID               uint   `json:"user_id"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	Role                 string `json:"role"`
	IsSubscriptionActive bool   `json:"is_subscription_active"`
	TokenType            string `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  Blacklist
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration, blacklist Blacklist) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		blacklist:  blacklist,
		now:        time.Now,
	}
}

func (t *TokenIssuer) IssuePair(u *models.User) (TokenPair, error) {
	access, err := t.sign(u, TokenTypeAccess, t.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := t.sign(u, TokenTypeRefresh, t.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (t *TokenIssuer) sign(u *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := t.now()

	claims := Claims{
		UserID:               u.ID,
		Username:             u.Username,
		Email:                u.Email,
		Role:                 u.Role,
		IsSubscriptionActive: u.IsSubscriptionActive,
		TokenType:            tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Parse validates signature and expiry without looking at the token type.
func (t *TokenIssuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UserID == 0 || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (t *TokenIssuer) ParseAccess(raw string) (*Claims, error) {
	return t.parseTyped(raw, TokenTypeAccess)
}

// ParseRefresh also rejects blacklisted refresh tokens.
func (t *TokenIssuer) ParseRefresh(ctx context.Context, raw string) (*Claims, error) {
	claims, err := t.parseTyped(raw, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	listed, err := t.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if listed {
		return nil, ErrTokenBlacklisted
	}

	return claims, nil
}

func (t *TokenIssuer) parseTyped(raw, tokenType string) (*Claims, error) {
	claims, err := t.Parse(raw)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// Revoke blacklists a refresh token until its natural expiry.
func (t *TokenIssuer) Revoke(ctx context.Context, claims *Claims) error {
	exp := t.now().Add(t.refreshTTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return t.blacklist.Add(ctx, claims.ID, claims.UserID, exp)
}

// Rotate consumes a refresh token and issues a new pair for u. The old token
// is blacklisted before the new pair is returned, and a token that another
// call already consumed fails with ErrTokenBlacklisted.
func (t *TokenIssuer) Rotate(ctx context.Context, claims *Claims, u *models.User) (TokenPair, error) {
	if err := t.Revoke(ctx, claims); err != nil {
		return TokenPair{}, err
	}
	return t.IssuePair(u)
}
