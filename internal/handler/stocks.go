package handler

import (
	"net/http"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/middleware"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/service"

	"github.com/gin-gonic/gin"
)

type StocksHandler struct{ svc service.StockService }

func NewStocksHandler(svc service.StockService) *StocksHandler { return &StocksHandler{svc: svc} }

// List godoc
// @Summary List stock movements
// @Tags stocks
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param name query string false "Product name substring"
// @Param movementType query string false "IN, OUT or TRANSFER"
// @Param date query string false "Calendar day YYYY-MM-DD"
// @Param search query string false "Exact product id"
// @Success 200 {object} dto.Page[dto.StockResponse]
// @Failure 400 {object} apierror.ValidationError
// @Router /api/v1/stocks [get]
func (h *StocksHandler) List(c *gin.Context) {
	var filter dto.StockFilter
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

func (h *StocksHandler) Count(c *gin.Context) {
	resp, err := h.svc.Count(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Record a stock movement
// @Tags stocks
// @Accept json
// @Produce json
// @Param body body dto.CreateStockRequest true "Movement; product_id is required"
// @Success 201 {object} dto.StockResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Router /api/v1/stocks [post]
func (h *StocksHandler) Create(c *gin.Context) {
	var req dto.CreateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.ActorID(c), req.ProductID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CreateForProduct godoc
// @Summary Record a stock movement against a product
// @Tags products
// @Accept json
// @Produce json
// @Param productId path int true "Product ID"
// @Param body body dto.CreateStockRequest true "Movement"
// @Success 200 {object} dto.ProductStockResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Router /api/v1/products/product-stocks/{productId} [put]
func (h *StocksHandler) CreateForProduct(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req dto.CreateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.ActorID(c), productID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductStockResponse{
		Status:  "success",
		Message: "Stock updated successfully",
		Data:    *resp,
	})
}

// Update godoc
// @Summary Replace a stock movement
// @Tags stocks
// @Accept json
// @Produce json
// @Param stockId path int true "Stock movement ID"
// @Param body body dto.UpdateStockRequest true "Replacement"
// @Success 200 {object} dto.StockResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/v1/stocks/{stockId} [put]
func (h *StocksHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "stockId")
	if !ok {
		return
	}
	var req dto.UpdateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StocksHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "stockId")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "stock movement deleted"})
}
