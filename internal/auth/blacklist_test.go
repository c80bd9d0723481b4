package auth_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/trucking-desk/internal/auth"
	"github.com/BruksfildServices01/trucking-desk/internal/testutil"
)

func TestGormBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := auth.NewGormBlacklist(testutil.NewDB(t))

	ok, err := bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)

	exp := time.Now().Add(time.Hour)
	require.NoError(t, bl.Add(ctx, "jti-1", 5, exp))
	assert.ErrorIs(t, bl.Add(ctx, "jti-1", 5, exp), auth.ErrTokenBlacklisted)

	ok, err = bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, bl.Add(ctx, "jti-old", 5, time.Now().Add(-time.Hour)))
	n, err := bl.Purge(ctx, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ok, err = bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisBlacklist(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := auth.NewRedisClient(ctx, url)
	if err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	defer client.Close()

	bl := auth.NewRedisBlacklist(client)
	jti := uuid.NewString()

	ok, err := bl.Contains(ctx, jti)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, bl.Add(ctx, jti, 9, time.Now().Add(time.Minute)))
	assert.ErrorIs(t, bl.Add(ctx, jti, 9, time.Now().Add(time.Minute)), auth.ErrTokenBlacklisted)

	ok, err = bl.Contains(ctx, jti)
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err := client.TTL(ctx, "auth:blacklist:"+jti).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	expired := uuid.NewString()
	require.NoError(t, bl.Add(ctx, expired, 9, time.Now().Add(-time.Minute)))
	ok, err = bl.Contains(ctx, expired)
	require.NoError(t, err)
	assert.False(t, ok)
}
