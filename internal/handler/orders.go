package handler

import (
	"net/http"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/apierror"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// Create godoc
// @Summary Create an order and fulfil its stock
// @Description Stores the order and its lines, then records one OUT movement per line and per non-zero gift tier in the same transaction.
// @Tags orders
// @Accept json
// @Produce json
// @Param body body dto.CreateOrderRequest true "Order"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 500 {object} apierror.APIError
// @Router /api/v1/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, apierror.Invalid("body", "unreadable request body"))
		return
	}

	var req dto.CreateOrderRequest
	if err := decodeAndValidate(body, &req); err != nil {
		h.svc.RecordFailure(ctx, c.FullPath(), body, err)
		respondError(c, err)
		return
	}

	resp, err := h.svc.Create(ctx, req)
	if err != nil {
		h.svc.RecordFailure(ctx, c.FullPath(), body, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrdersHandler) BulkImport(c *gin.Context) {
	rows, ok := bindRows[dto.BulkOrderRow](c)
	if !ok {
		return
	}
	resp, err := h.svc.BulkImport(c.Request.Context(), rows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List orders
// @Tags orders
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param date query string false "Calendar day YYYY-MM-DD"
// @Param search query string false "Order code substring"
// @Param phone query string false "Shipping phone substring"
// @Param orderId query string false "Exact order id"
// @Success 200 {object} dto.Page[dto.OrderResponse]
// @Router /api/v1/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PackingSlip godoc
// @Summary Download the order packing slip
// @Tags orders
// @Produce application/pdf
// @Param orderId path string true "Order ID"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /api/v1/orders/{orderId}/pdf [get]
func (h *OrdersHandler) PackingSlip(c *gin.Context) {
	id := c.Param("orderId")
	pdf, err := h.svc.PackingSlip(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "inline; filename=order-"+id+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
