package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/trucking-desk/internal/dto"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/httpresp"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

// CatalogHandler serves reference data: locations, cargo types and tariff
// settings. Reads are open to any authenticated user, writes are wired
// behind RequireAdmin.
type CatalogHandler struct {
	db       *gorm.DB
	pageSize int
	log      *zap.Logger
}

func NewCatalogHandler(db *gorm.DB, pageSize int, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{db: db, pageSize: pageSize, log: log}
}

// --------- Requests ---------

type CreateLocationRequest struct {
	CityName  string   `json:"city_name" binding:"required,max=100"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
}

type UpdateLocationRequest struct {
	CityName  *string              `json:"city_name" binding:"omitempty,min=1,max=100"`
	Latitude  dto.Optional[float64] `json:"latitude"`
	Longitude dto.Optional[float64] `json:"longitude"`
}

type CreateCargoTypeRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type UpdateCargoTypeRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

type CreateTariffRequest struct {
	PricePerKm *float64 `json:"price_per_km" binding:"required,gte=0"`
	PricePerKg *float64 `json:"price_per_kg" binding:"omitempty,gte=0"`
	BaseFee    float64  `json:"base_fee" binding:"gte=0"`
}

type UpdateTariffRequest struct {
	PricePerKm *float64              `json:"price_per_km" binding:"omitempty,gte=0"`
	PricePerKg dto.Optional[float64] `json:"price_per_kg"`
	BaseFee    *float64              `json:"base_fee" binding:"omitempty,gte=0"`
}

// --------- Shared ---------

func (h *CatalogHandler) page(c *gin.Context, q *gorm.DB, out any) (httpresp.Pagination, int64, bool) {
	page, err := httpresp.ParsePagination(c, h.pageSize)
	if err != nil {
		httpresp.InvalidPage(c)
		return page, 0, false
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(c, h.log, err)
		return page, 0, false
	}

	if err := q.Order("id ASC").Limit(page.Limit()).Offset(page.Offset()).Find(out).Error; err != nil {
		writeError(c, h.log, err)
		return page, 0, false
	}

	return page, total, true
}

func (h *CatalogHandler) load(c *gin.Context, dst any, notFound string) bool {
	id, ok := parseID(c, "id")
	if !ok {
		return false
	}

	err := h.db.WithContext(c.Request.Context()).First(dst, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, notFound, "Not found.")
		return false
	}
	if err != nil {
		writeError(c, h.log, err)
		return false
	}
	return true
}

// ======================================================
// LOCATIONS
// ======================================================

func (h *CatalogHandler) ListLocations(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Location{})
	if s := strings.ToLower(strings.TrimSpace(c.Query("search"))); s != "" {
		q = q.Where("LOWER(city_name) LIKE ?", "%"+s+"%")
	}

	var rows []models.Location
	if p, total, ok := h.page(c, q, &rows); ok {
		httpresp.Paginated(c, p, total, rows)
	}
}

func (h *CatalogHandler) GetLocation(c *gin.Context) {
	var loc models.Location
	if h.load(c, &loc, "location_not_found") {
		httpresp.OK(c, loc)
	}
}

func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	loc := models.Location{
		CityName:  strings.TrimSpace(req.CityName),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&loc).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, loc)
}

func (h *CatalogHandler) UpdateLocation(c *gin.Context) {
	var loc models.Location
	if !h.load(c, &loc, "location_not_found") {
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	if req.CityName != nil {
		loc.CityName = strings.TrimSpace(*req.CityName)
	}
	if req.Latitude.Set {
		if v := req.Latitude.Value; v != nil && (*v < -90 || *v > 90) {
			httperr.Field(c, "latitude", "Ensure this value is between -90 and 90.")
			return
		}
		loc.Latitude = req.Latitude.Value
	}
	if req.Longitude.Set {
		if v := req.Longitude.Value; v != nil && (*v < -180 || *v > 180) {
			httperr.Field(c, "longitude", "Ensure this value is between -180 and 180.")
			return
		}
		loc.Longitude = req.Longitude.Value
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&loc).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, loc)
}

// ======================================================
// CARGO TYPES
// ======================================================

func (h *CatalogHandler) ListCargoTypes(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.CargoType{})
	if s := strings.ToLower(strings.TrimSpace(c.Query("search"))); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+s+"%")
	}

	var rows []models.CargoType
	if p, total, ok := h.page(c, q, &rows); ok {
		httpresp.Paginated(c, p, total, rows)
	}
}

func (h *CatalogHandler) GetCargoType(c *gin.Context) {
	var ct models.CargoType
	if h.load(c, &ct, "cargo_type_not_found") {
		httpresp.OK(c, ct)
	}
}

func (h *CatalogHandler) CreateCargoType(c *gin.Context) {
	var req CreateCargoTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	ct := models.CargoType{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&ct).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, ct)
}

func (h *CatalogHandler) UpdateCargoType(c *gin.Context) {
	var ct models.CargoType
	if !h.load(c, &ct, "cargo_type_not_found") {
		return
	}

	var req UpdateCargoTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	if req.Name != nil {
		ct.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		ct.Description = *req.Description
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&ct).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, ct)
}

// ======================================================
// TARIFFS
// ======================================================

func (h *CatalogHandler) ListTariffs(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.TariffSettings{})

	var rows []models.TariffSettings
	if p, total, ok := h.page(c, q, &rows); ok {
		httpresp.Paginated(c, p, total, rows)
	}
}

func (h *CatalogHandler) GetTariff(c *gin.Context) {
	var t models.TariffSettings
	if h.load(c, &t, "tariff_not_found") {
		httpresp.OK(c, t)
	}
}

func (h *CatalogHandler) CreateTariff(c *gin.Context) {
	var req CreateTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	t := models.TariffSettings{
		PricePerKm: *req.PricePerKm,
		PricePerKg: req.PricePerKg,
		BaseFee:    req.BaseFee,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&t).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, t)
}

func (h *CatalogHandler) UpdateTariff(c *gin.Context) {
	var t models.TariffSettings
	if !h.load(c, &t, "tariff_not_found") {
		return
	}

	var req UpdateTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	if req.PricePerKm != nil {
		t.PricePerKm = *req.PricePerKm
	}
	if req.PricePerKg.Set {
		if v := req.PricePerKg.Value; v != nil && *v < 0 {
			httperr.Field(c, "price_per_kg", "Ensure this value is greater than or equal to 0.")
			return
		}
		t.PricePerKg = req.PricePerKg.Value
	}
	if req.BaseFee != nil {
		t.BaseFee = *req.BaseFee
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&t).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, t)
}
