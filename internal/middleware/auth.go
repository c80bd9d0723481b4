package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/trucking-desk/internal/auth"
	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextActor    = "actor"
)

// UserLoader fetches the account behind a token.
type UserLoader func(ctx context.Context, id uint) (*models.User, error)

func GormUserLoader(db *gorm.DB) UserLoader {
	return func(ctx context.Context, id uint) (*models.User, error) {
		var u models.User
		if err := db.WithContext(ctx).First(&u, id).Error; err != nil {
			return nil, err
		}
		return &u, nil
	}
}

// AuthMiddleware accepts access tokens only and resolves the actor from the
// current database row, so role changes apply without reissuing tokens.
func AuthMiddleware(tokens *auth.TokenIssuer, load UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, "missing_authorization_header", "Authentication credentials were not provided.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_authorization_header", "Expected a Bearer token.")
			return
		}

		claims, err := tokens.ParseAccess(strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Token is invalid or expired.")
			return
		}

		user, err := load(c.Request.Context(), claims.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Abort(c, http.StatusUnauthorized, "user_not_found", "User not found.")
			return
		}
		if err != nil {
			httperr.Abort(c, http.StatusInternalServerError, "user_lookup_failed", "")
			return
		}
		if !user.IsActive {
			httperr.Abort(c, http.StatusUnauthorized, "user_inactive", "User is inactive.")
			return
		}

		role, ok := access.ParseRole(user.Role)
		if !ok {
			role = access.RoleSender
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, string(role))
		c.Set(ContextActor, access.Actor{
			UserID:      user.ID,
			Role:        role,
			IsStaff:     user.IsStaff,
			IsSuperuser: user.IsSuperuser,
		})

		c.Next()
	}
}

// RequireAdmin lets through ADMIN role holders and staff accounts.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).IsAdmin() {
			httperr.Abort(c, http.StatusForbidden, "forbidden", "You do not have permission to perform this action.")
			return
		}
		c.Next()
	}
}

// CatalogWrite guards reference data writes with the catalog policy.
func CatalogWrite(action access.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if access.AuthorizeCatalog(ActorFrom(c), action) != access.Allow {
			httperr.Abort(c, http.StatusForbidden, "forbidden", "You do not have permission to perform this action.")
			return
		}
		c.Next()
	}
}

func RequireRole(roles ...access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := ActorFrom(c)
		for _, r := range roles {
			if a.Role == r {
				c.Next()
				return
			}
		}
		httperr.Abort(c, http.StatusForbidden, "forbidden_role", "Your role cannot perform this action.")
	}
}

func ActorFrom(c *gin.Context) access.Actor {
	v, ok := c.Get(ContextActor)
	if !ok {
		return access.Actor{}
	}
	a, _ := v.(access.Actor)
	return a
}
