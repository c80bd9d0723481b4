package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	domain "github.com/BruksfildServices01/trucking-desk/internal/domain/order"
	"github.com/BruksfildServices01/trucking-desk/internal/dto"
	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
	"github.com/BruksfildServices01/trucking-desk/internal/httpresp"
	"github.com/BruksfildServices01/trucking-desk/internal/middleware"
	ucorder "github.com/BruksfildServices01/trucking-desk/internal/usecase/order"
)

// ======================================================
// HANDLER
// ======================================================

type OrderHandler struct {
	createUC *ucorder.CreateOrder
	listUC   *ucorder.ListOrders
	getUC    *ucorder.GetOrder
	updateUC *ucorder.UpdateOrder
	pageSize int
	log      *zap.Logger
}

func NewOrderHandler(
	createUC *ucorder.CreateOrder,
	listUC *ucorder.ListOrders,
	getUC *ucorder.GetOrder,
	updateUC *ucorder.UpdateOrder,
	pageSize int,
	log *zap.Logger,
) *OrderHandler {
	return &OrderHandler{
		createUC: createUC,
		listUC:   listUC,
		getUC:    getUC,
		updateUC: updateUC,
		pageSize: pageSize,
		log:      log,
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *OrderHandler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	// Role is checked before the body so a driver gets 403 even for an
	// incomplete payload.
	if access.AuthorizeOrder(actor, access.ActionCreate, nil) != access.Allow {
		writeError(c, h.log, httperr.ErrBusiness("forbidden_role"))
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	o, err := h.createUC.Execute(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, o)
}

// ======================================================
// LIST
// ======================================================

func (h *OrderHandler) List(c *gin.Context) {
	page, err := httpresp.ParsePagination(c, h.pageSize)
	if err != nil {
		httpresp.InvalidPage(c)
		return
	}

	filter := domain.ListFilter{
		Status: strings.TrimSpace(c.Query("status")),
	}

	var ok bool
	if filter.CargoTypeID, ok = queryID(c, "cargo_type"); !ok {
		return
	}
	if filter.DeparturePointID, ok = queryID(c, "departure_point"); !ok {
		return
	}
	if filter.DestinationPointID, ok = queryID(c, "destination_point"); !ok {
		return
	}

	orders, total, err := h.listUC.Execute(
		c.Request.Context(),
		middleware.ActorFrom(c),
		filter,
		page.Limit(),
		page.Offset(),
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Paginated(c, page, total, orders)
}

// ======================================================
// RETRIEVE / UPDATE
// ======================================================

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	o, err := h.getUC.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, o)
}

func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	actor := middleware.ActorFrom(c)

	// Orders outside the caller's scope are 404 whatever the body holds.
	if _, err := h.getUC.Execute(c.Request.Context(), actor, id); err != nil {
		writeError(c, h.log, err)
		return
	}

	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	o, err := h.updateUC.Execute(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, o)
}
