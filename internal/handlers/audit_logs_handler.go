package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/httpresp"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db       *gorm.DB
	pageSize int
	log      *zap.Logger
}

func NewAuditLogsHandler(db *gorm.DB, pageSize int, log *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, pageSize: pageSize, log: log}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, err := httpresp.ParsePagination(c, h.pageSize)
	if err != nil {
		httpresp.InvalidPage(c)
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}

	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	entityID, ok := queryID(c, "entity_id")
	if !ok {
		return
	}
	if entityID != nil {
		q = q.Where("entity_id = ?", *entityID)
	}

	actorID, ok := queryID(c, "actor_id")
	if !ok {
		return
	}
	if actorID != nil {
		q = q.Where("actor_id = ?", *actorID)
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			httperr.Field(c, "from", "Use the YYYY-MM-DD format.")
			return
		}
		q = q.Where("created_at >= ?", from)
	}

	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			httperr.Field(c, "to", "Use the YYYY-MM-DD format.")
			return
		}
		q = q.Where("created_at < ?", to.Add(24*time.Hour))
	}

	// --------------------------------------------------
	// Total
	// --------------------------------------------------

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	// --------------------------------------------------
	// Listing
	// --------------------------------------------------

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&logs).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Paginated(c, page, total, logs)
}
