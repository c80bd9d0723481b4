package identity

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	ReferralCodeLength = 8
	referralAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrReferralExhausted = errors.New("no free referral code after max attempts")

// ExistsFunc reports whether a referral code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

type ReferralGenerator struct {
	maxAttempts int
	draw        func() (string, error)
}

func NewReferralGenerator(maxAttempts int) *ReferralGenerator {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &ReferralGenerator{
		maxAttempts: maxAttempts,
		draw:        randomCode,
	}
}

// WithSource replaces the random source. Used by tests to force collisions.
func (g *ReferralGenerator) WithSource(draw func() (string, error)) *ReferralGenerator {
	g.draw = draw
	return g
}

func (g *ReferralGenerator) MaxAttempts() int {
	return g.maxAttempts
}

// Generate draws codes until exists reports a free one. The database unique
// index remains the final arbiter; callers retry on a duplicate insert.
func (g *ReferralGenerator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for i := 0; i < g.maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code, err := g.draw()
		if err != nil {
			return "", err
		}

		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrReferralExhausted
}

func randomCode() (string, error) {
	max := big.NewInt(int64(len(referralAlphabet)))
	b := make([]byte, ReferralCodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = referralAlphabet[n.Int64()]
	}
	return string(b), nil
}
