package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/trucking-desk/internal/audit"
	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/httpresp"
	"github.com/BruksfildServices01/trucking-desk/internal/middleware"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
	"github.com/BruksfildServices01/trucking-desk/internal/timezone"
)

type SubscriptionHandler struct {
	db       *gorm.DB
	audit    audit.Sink
	pageSize int
	log      *zap.Logger
	tz       string
}

func NewSubscriptionHandler(db *gorm.DB, audit audit.Sink, pageSize int, log *zap.Logger, tz string) *SubscriptionHandler {
	return &SubscriptionHandler{db: db, audit: audit, pageSize: pageSize, log: log, tz: tz}
}

// --------- Requests ---------

type CreatePlanRequest struct {
	Name         string   `json:"name" binding:"required,max=100"`
	Description  string   `json:"description"`
	Price        *float64 `json:"price" binding:"required,gte=0"`
	DurationDays int      `json:"duration_days" binding:"required,gt=0"`
	IsActive     *bool    `json:"is_active"`
}

type UpdatePlanRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price" binding:"omitempty,gte=0"`
	DurationDays *int     `json:"duration_days" binding:"omitempty,gt=0"`
	IsActive     *bool    `json:"is_active"`
}

type GrantSubscriptionRequest struct {
	UserID uint `json:"user_id" binding:"required"`
	PlanID uint `json:"plan_id" binding:"required"`
}

type UpdateSubscriptionRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ======================================================
// PLANS
// ======================================================

func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	page, err := httpresp.ParsePagination(c, h.pageSize)
	if err != nil {
		httpresp.InvalidPage(c)
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.SubscriptionPlan{})
	if !middleware.ActorFrom(c).IsAdmin() {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	var plans []models.SubscriptionPlan
	if err := q.Order("price ASC, id ASC").Limit(page.Limit()).Offset(page.Offset()).Find(&plans).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Paginated(c, page, total, plans)
}

func (h *SubscriptionHandler) loadPlan(c *gin.Context) (*models.SubscriptionPlan, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	q := h.db.WithContext(c.Request.Context())
	if !middleware.ActorFrom(c).IsAdmin() {
		q = q.Where("is_active = ?", true)
	}

	var plan models.SubscriptionPlan
	err := q.First(&plan, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "plan_not_found", "Not found.")
		return nil, false
	}
	if err != nil {
		writeError(c, h.log, err)
		return nil, false
	}
	return &plan, true
}

func (h *SubscriptionHandler) GetPlan(c *gin.Context) {
	if plan, ok := h.loadPlan(c); ok {
		httpresp.OK(c, plan)
	}
}

func (h *SubscriptionHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	plan := models.SubscriptionPlan{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Price:        *req.Price,
		DurationDays: req.DurationDays,
		IsActive:     true,
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}
		// gorm substitutes the column default for a zero bool on insert.
		if req.IsActive != nil && !*req.IsActive {
			plan.IsActive = false
			return tx.Model(&plan).UpdateColumn("is_active", false).Error
		}
		return nil
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, plan)
}

func (h *SubscriptionHandler) UpdatePlan(c *gin.Context) {
	plan, ok := h.loadPlan(c)
	if !ok {
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	if req.Name != nil {
		plan.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.DurationDays != nil {
		plan.DurationDays = *req.DurationDays
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Save(plan).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, plan)
}

// ======================================================
// USER SUBSCRIPTIONS
// ======================================================

func (h *SubscriptionHandler) List(c *gin.Context) {
	page, err := httpresp.ParsePagination(c, h.pageSize)
	if err != nil {
		httpresp.InvalidPage(c)
		return
	}

	actor := middleware.ActorFrom(c)
	q := h.db.WithContext(c.Request.Context()).Model(&models.UserSubscription{})

	if actor.IsAdmin() {
		userID, ok := queryID(c, "user_id")
		if !ok {
			return
		}
		if userID != nil {
			q = q.Where("user_id = ?", *userID)
		}
	} else {
		q = q.Where("user_id = ?", actor.UserID)
	}

	active, ok := queryBool(c, "is_active")
	if !ok {
		return
	}
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	var subs []models.UserSubscription
	if err := q.Preload("Plan").
		Order("start_date DESC, id DESC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&subs).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Paginated(c, page, total, subs)
}

func (h *SubscriptionHandler) loadSubscription(c *gin.Context) (*models.UserSubscription, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	actor := middleware.ActorFrom(c)
	q := h.db.WithContext(c.Request.Context()).Preload("Plan")
	if !actor.IsAdmin() {
		q = q.Where("user_id = ?", actor.UserID)
	}

	var sub models.UserSubscription
	err := q.First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "subscription_not_found", "Not found.")
		return nil, false
	}
	if err != nil {
		writeError(c, h.log, err)
		return nil, false
	}
	return &sub, true
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	if sub, ok := h.loadSubscription(c); ok {
		httpresp.OK(c, sub)
	}
}

// Create grants a plan to a driver and raises their subscription flag in
// the same transaction.
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req GrantSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	now := timezone.NowIn(h.tz)
	var sub models.UserSubscription

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.NewFieldError("user_id", "Invalid pk - object does not exist.")
			}
			return err
		}
		if user.Role != string(access.RoleDriver) {
			return httperr.ErrBusiness("user_not_driver")
		}

		var plan models.SubscriptionPlan
		if err := tx.Where("is_active = ?", true).First(&plan, req.PlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("plan_not_found")
			}
			return err
		}

		sub = models.UserSubscription{
			UserID:    user.ID,
			PlanID:    plan.ID,
			StartDate: now,
			EndDate:   now.AddDate(0, 0, plan.DurationDays),
			IsActive:  true,
		}
		if err := tx.Omit(clause.Associations).Create(&sub).Error; err != nil {
			return err
		}
		sub.Plan = plan

		return tx.Model(&models.User{}).
			Where("id = ?", user.ID).
			UpdateColumn("is_subscription_active", true).Error
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	actor := middleware.ActorFrom(c)
	h.audit.Dispatch(audit.Event{
		ActorID:  &actor.UserID,
		Action:   audit.ActionSubscriptionGranted,
		Entity:   "subscription",
		EntityID: &sub.ID,
		Metadata: map[string]any{"user_id": sub.UserID, "plan_id": sub.PlanID},
	})

	httpresp.Created(c, sub)
}

// Update toggles is_active and recomputes the owner's flag from their
// remaining live subscriptions.
func (h *SubscriptionHandler) Update(c *gin.Context) {
	sub, ok := h.loadSubscription(c)
	if !ok {
		return
	}

	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	now := timezone.NowIn(h.tz)

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserSubscription{}).
			Where("id = ?", sub.ID).
			UpdateColumn("is_active", *req.IsActive).Error; err != nil {
			return err
		}
		sub.IsActive = *req.IsActive

		return refreshSubscriptionFlag(tx, sub.UserID, now)
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	actor := middleware.ActorFrom(c)
	h.audit.Dispatch(audit.Event{
		ActorID:  &actor.UserID,
		Action:   audit.ActionSubscriptionModified,
		Entity:   "subscription",
		EntityID: &sub.ID,
		Metadata: map[string]any{"is_active": sub.IsActive},
	})

	httpresp.OK(c, sub)
}

func refreshSubscriptionFlag(tx *gorm.DB, userID uint, now time.Time) error {
	var live int64
	if err := tx.Model(&models.UserSubscription{}).
		Where("user_id = ? AND is_active = ? AND end_date > ?", userID, true, now).
		Count(&live).Error; err != nil {
		return err
	}

	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("is_subscription_active", live > 0).Error
}
