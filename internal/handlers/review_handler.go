package handlers

import (
	"errors"

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
)

type ReviewHandler struct {
	db       *gorm.DB
	audit    audit.Sink
	pageSize int
	log      *zap.Logger
}

func NewReviewHandler(db *gorm.DB, audit audit.Sink, pageSize int, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{db: db, audit: audit, pageSize: pageSize, log: log}
}

type CreateReviewRequest struct {
	Order   uint   `json:"order" binding:"required"`
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) scoped(c *gin.Context) *gorm.DB {
	actor := middleware.ActorFrom(c)
	q := h.db.WithContext(c.Request.Context()).Model(&models.Review{})
	if !actor.IsAdmin() {
		q = q.Where("reviewer_id = ? OR reviewed_user_id = ?", actor.UserID, actor.UserID)
	}
	return q
}

func (h *ReviewHandler) List(c *gin.Context) {
	page, err := httpresp.ParsePagination(c, h.pageSize)
	if err != nil {
		httpresp.InvalidPage(c)
		return
	}

	q := h.scoped(c)

	orderID, ok := queryID(c, "order")
	if !ok {
		return
	}
	if orderID != nil {
		q = q.Where("order_id = ?", *orderID)
	}
	reviewed, ok := queryID(c, "reviewed_user")
	if !ok {
		return
	}
	if reviewed != nil {
		q = q.Where("reviewed_user_id = ?", *reviewed)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	var reviews []models.Review
	if err := q.Order("created_at DESC, id DESC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&reviews).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Paginated(c, page, total, reviews)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var review models.Review
	err := h.scoped(c).Where("id = ?", id).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "review_not_found", "Not found.")
		return
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, review)
}

// Create records a review of the other party on an order the reviewer
// took part in. One review per order and reviewer.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	actor := middleware.ActorFrom(c)

	var order models.Order
	err := h.db.WithContext(c.Request.Context()).First(&order, req.Order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Field(c, "order", "Invalid pk - object does not exist.")
		return
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	ref := access.OrderRef{SenderID: order.SenderID, DriverID: order.DriverID}
	if access.AuthorizeOrder(actor, access.ActionRetrieve, &ref) != access.Allow {
		httperr.Field(c, "order", "Invalid pk - object does not exist.")
		return
	}
	if order.DriverID == nil {
		writeError(c, h.log, httperr.ErrBusiness("order_has_no_driver"))
		return
	}

	var reviewed uint
	switch actor.UserID {
	case order.SenderID:
		reviewed = *order.DriverID
	case *order.DriverID:
		reviewed = order.SenderID
	default:
		httperr.Field(c, "order", "Only the sender or driver of an order can review it.")
		return
	}

	review := models.Review{
		OrderID:        order.ID,
		ReviewerID:     actor.UserID,
		ReviewedUserID: reviewed,
		Rating:         req.Rating,
		Comment:        req.Comment,
	}

	err = h.db.WithContext(c.Request.Context()).
		Omit(clause.Associations).
		Create(&review).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		writeError(c, h.log, httperr.ErrBusiness("already_reviewed"))
		return
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  &actor.UserID,
		Action:   audit.ActionReviewCreated,
		Entity:   "review",
		EntityID: &review.ID,
		Metadata: map[string]any{"order_id": order.ID, "rating": review.Rating},
	})

	httpresp.Created(c, review)
}
