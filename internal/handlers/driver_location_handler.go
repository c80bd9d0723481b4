package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/middleware"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
	"github.com/BruksfildServices01/trucking-desk/internal/timezone"
)

type DriverLocationHandler struct {
	db  *gorm.DB
	log *zap.Logger
	tz  string
}

func NewDriverLocationHandler(db *gorm.DB, log *zap.Logger, tz string) *DriverLocationHandler {
	return &DriverLocationHandler{db: db, log: log, tz: tz}
}

type UpdateDriverLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

func (h *DriverLocationHandler) Get(c *gin.Context) {
	driverID := middleware.ActorFrom(c).UserID

	var loc models.DriverLocation
	err := h.db.WithContext(c.Request.Context()).
		Where("driver_id = ?", driverID).
		First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "location_not_found", "No location reported yet.")
		return
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, loc)
}

// Put upserts the driver's single location row.
func (h *DriverLocationHandler) Put(c *gin.Context) {
	var req UpdateDriverLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	loc := models.DriverLocation{
		DriverID:  middleware.ActorFrom(c).UserID,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		UpdatedAt: timezone.NowIn(h.tz),
	}

	if err := h.db.WithContext(c.Request.Context()).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "driver_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "updated_at"}),
		}).
		Create(&loc).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	var saved models.DriverLocation
	if err := h.db.WithContext(c.Request.Context()).
		Where("driver_id = ?", loc.DriverID).
		First(&saved).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, saved)
}
