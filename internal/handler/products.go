package handler

import (
	"net/http"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/middleware"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// Create godoc
// @Summary Create a product
// @Description Publishes the product; an initial IN quantity is recorded in the ledger.
// @Tags products
// @Accept json
// @Produce json
// @Param body body dto.CreateProductRequest true "Product"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 409 {object} apierror.APIError
// @Router /api/v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductsHandler) BulkCreate(c *gin.Context) {
	rows, ok := bindRows[dto.BulkProductRow](c)
	if !ok {
		return
	}
	resp, err := h.svc.BulkCreate(c.Request.Context(), rows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List published products
// @Tags products
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param name query string false "Name substring"
// @Param search query string false "Name or SKU substring"
// @Param status query string false "LOW, NORMAL or OUT_OF_STOCK"
// @Success 200 {object} dto.Page[dto.ProductResponse]
// @Router /api/v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
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

// Get godoc
// @Summary Get a product with its stock movements
// @Tags products
// @Produce json
// @Param productId path int true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/v1/products/{productId} [get]
func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
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

func (h *ProductsHandler) ReorderLevels(c *gin.Context) {
	resp, err := h.svc.ReorderLevels(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Bundles ──────────────────────────────────────────────────────────────────

func (h *ProductsHandler) CreateBundle(c *gin.Context) {
	var req dto.CreateBundleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateBundle(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductsHandler) BulkCreateBundles(c *gin.Context) {
	rows, ok := bindRows[dto.BulkBundleRow](c)
	if !ok {
		return
	}
	resp, err := h.svc.BulkCreateBundles(c.Request.Context(), rows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
