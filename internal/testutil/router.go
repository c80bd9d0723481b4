package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/trucking-desk/internal/audit"
	"github.com/BruksfildServices01/trucking-desk/internal/auth"
	"github.com/BruksfildServices01/trucking-desk/internal/config"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
	"github.com/BruksfildServices01/trucking-desk/internal/routes"
)

// Config mirrors the production defaults with a fixed secret.
func Config() *config.Config {
	return &config.Config{
		JWTSecret:           "test-secret",
		ServerPort:          "0",
		LogLevel:            "error",
		Timezone:            "UTC",
		AccessTokenTTL:      time.Hour,
		RefreshTokenTTL:     24 * time.Hour,
		ShutdownTimeout:     time.Second,
		PageSize:            20,
		ReferralMaxAttempts: 10,
		AuditQueueSize:      10,
	}
}

// SyncAudit writes events inline so tests can assert on audit_logs rows.
type SyncAudit struct {
	Logger *audit.Logger
}

func (s SyncAudit) Dispatch(ev audit.Event) {
	_ = s.Logger.Log(context.Background(), ev)
}

// App is a fully wired router over a private database.
type App struct {
	DB     *gorm.DB
	Config *config.Config
	Router *gin.Engine
	Tokens *auth.TokenIssuer
}

func NewApp(t testing.TB, mutate ...func(*config.Config)) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := NewDB(t)
	cfg := Config()
	for _, m := range mutate {
		m(cfg)
	}

	blacklist := auth.NewGormBlacklist(db)

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		DB:        db,
		Config:    cfg,
		Logger:    zap.NewNop(),
		Blacklist: blacklist,
		Audit:     SyncAudit{Logger: audit.New(db)},
	})

	return &App{
		DB:     db,
		Config: cfg,
		Router: r,
		Tokens: auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, blacklist),
	}
}

// Token returns an access token for u.
func (a *App) Token(t testing.TB, u *models.User) string {
	t.Helper()

	pair, err := a.Tokens.IssuePair(u)
	require.NoError(t, err)
	return pair.Access
}

// Do sends body as JSON. An empty token sends no Authorization header.
func (a *App) Do(t testing.TB, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

// Decode unmarshals the recorded body into a generic map.
func Decode(t testing.TB, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
