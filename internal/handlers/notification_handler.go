package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/httpresp"
	"github.com/BruksfildServices01/trucking-desk/internal/infra/repository"
	"github.com/BruksfildServices01/trucking-desk/internal/middleware"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

// NotificationHandler exposes stored in-app notifications. Nothing here
// pushes to devices.
type NotificationHandler struct {
	db       *gorm.DB
	store    *repository.NotificationGormRepository
	pageSize int
	log      *zap.Logger
}

func NewNotificationHandler(db *gorm.DB, store *repository.NotificationGormRepository, pageSize int, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{db: db, store: store, pageSize: pageSize, log: log}
}

type CreateNotificationRequest struct {
	User    uint   `json:"user" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=NEW_ORDER ORDER_ACCEPTED ORDER_DELIVERED SUBSCRIPTION_EXPIRING"`
	Title   string `json:"title" binding:"required,max=200"`
	Message string `json:"message" binding:"required"`
	Order   *uint  `json:"order"`
}

type UpdateNotificationRequest struct {
	IsRead *bool `json:"is_read" binding:"required"`
}

func (h *NotificationHandler) List(c *gin.Context) {
	page, err := httpresp.ParsePagination(c, h.pageSize)
	if err != nil {
		httpresp.InvalidPage(c)
		return
	}

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Notification{}).
		Where("user_id = ?", middleware.ActorFrom(c).UserID)

	isRead, ok := queryBool(c, "is_read")
	if !ok {
		return
	}
	if isRead != nil {
		q = q.Where("is_read = ?", *isRead)
	}
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	var rows []models.Notification
	if err := q.Order("created_at DESC, id DESC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&rows).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Paginated(c, page, total, rows)
}

func (h *NotificationHandler) load(c *gin.Context) (*models.Notification, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	var n models.Notification
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", id, middleware.ActorFrom(c).UserID).
		First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "notification_not_found", "Not found.")
		return nil, false
	}
	if err != nil {
		writeError(c, h.log, err)
		return nil, false
	}
	return &n, true
}

func (h *NotificationHandler) Get(c *gin.Context) {
	if n, ok := h.load(c); ok {
		httpresp.OK(c, n)
	}
}

func (h *NotificationHandler) Update(c *gin.Context) {
	n, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(n).
		UpdateColumn("is_read", *req.IsRead).Error; err != nil {
		writeError(c, h.log, err)
		return
	}
	n.IsRead = *req.IsRead

	httpresp.OK(c, n)
}

// MarkAllRead clears the caller's unread notifications.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", middleware.ActorFrom(c).UserID, false).
		UpdateColumn("is_read", true)
	if res.Error != nil {
		writeError(c, h.log, res.Error)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": res.RowsAffected})
}

func (h *NotificationHandler) Create(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id = ?", req.User).
		Count(&count).Error; err != nil {
		writeError(c, h.log, err)
		return
	}
	if count == 0 {
		httperr.Field(c, "user", "Invalid pk - object does not exist.")
		return
	}

	if req.Order != nil {
		if err := h.db.WithContext(c.Request.Context()).
			Model(&models.Order{}).
			Where("id = ?", *req.Order).
			Count(&count).Error; err != nil {
			writeError(c, h.log, err)
			return
		}
		if count == 0 {
			httperr.Field(c, "order", "Invalid pk - object does not exist.")
			return
		}
	}

	n := models.Notification{
		UserID:  req.User,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
		OrderID: req.Order,
	}
	if err := h.store.Notify(c.Request.Context(), &n); err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, n)
}
