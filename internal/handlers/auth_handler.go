package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/trucking-desk/internal/dto"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/middleware"
	ucidentity "github.com/BruksfildServices01/trucking-desk/internal/usecase/identity"
)

type AuthHandler struct {
	register *ucidentity.Register
	sessions *ucidentity.Sessions
	log      *zap.Logger
}

func NewAuthHandler(
	register *ucidentity.Register,
	sessions *ucidentity.Sessions,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		register: register,
		sessions: sessions,
		log:      log,
	}
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	user, pair, err := h.register.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"phone_number": user.PhoneNumber,
		"email":        user.Email,
		"role":         user.Role,
		"access":       pair.Access,
		"refresh":      pair.Refresh,
		"user":         dto.NewUserResponse(user),
	})
}

// Login also serves token/ since both take phone and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_credentials", "Phone number and password are required.")
		return
	}

	user, pair, err := h.sessions.Login(c.Request.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    dto.NewUserResponse(user),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_token", "Refresh token is required.")
		return
	}

	actor := middleware.ActorFrom(c)
	if err := h.sessions.Logout(c.Request.Context(), actor, req.Refresh); err != nil {
		if code, ok := httperr.Code(err); ok && (code == "token_not_valid" || code == "token_blacklisted") {
			httperr.BadRequest(c, "invalid_token", "Token is invalid.")
			return
		}
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	pair, err := h.sessions.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	if err := h.sessions.Verify(c.Request.Context(), req.Token); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
