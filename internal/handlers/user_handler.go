package handlers

import (

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/trucking-desk/internal/domain/identity"
	"github.com/BruksfildServices01/trucking-desk/internal/dto"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/httpresp"
	"github.com/BruksfildServices01/trucking-desk/internal/middleware"
	ucidentity "github.com/BruksfildServices01/trucking-desk/internal/usecase/identity"
)

type UserHandler struct {
	profiles *ucidentity.Profiles
	register *ucidentity.Register
	pageSize int
	log      *zap.Logger
}

func NewUserHandler(
	profiles *ucidentity.Profiles,
	register *ucidentity.Register,
	pageSize int,
	log *zap.Logger,
) *UserHandler {
	return &UserHandler{
		profiles: profiles,
		register: register,
		pageSize: pageSize,
		log:      log,
	}
}

// --------- Self ---------

func (h *UserHandler) Profile(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	u, err := h.profiles.Get(c.Request.Context(), actor, actor.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewProfileResponse(u))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	u, err := h.profiles.UpdateSelf(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewProfileResponse(u))
}

func (h *UserHandler) Me(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	u, err := h.profiles.Get(c.Request.Context(), actor, actor.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewUserResponse(u))
}

// --------- Directory ---------

func (h *UserHandler) List(c *gin.Context) {
	page, err := httpresp.ParsePagination(c, h.pageSize)
	if err != nil {
		httpresp.InvalidPage(c)
		return
	}

	filter := domain.UserFilter{
		Role:   c.Query("role"),
		Search: c.Query("search"),
	}

	users, total, err := h.profiles.List(c.Request.Context(), middleware.ActorFrom(c), filter, page.Limit(), page.Offset())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Paginated(c, page, total, dto.NewUserResponses(users))
}

func (h *UserHandler) Create(c *gin.Context) {
	var req dto.AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	u, err := h.register.CreateByAdmin(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, dto.NewUserResponse(u))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	u, err := h.profiles.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewUserResponse(u))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	u, err := h.profiles.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewUserResponse(u))
}
