package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	ProductNumber     int64           `json:"product_number"      validate:"required,gt=0"`
	Name              string          `json:"name"                validate:"required,min=1,max=255"`
	ShortDescription  *string         `json:"short_description"`
	LongDescription   *string         `json:"long_description"`
	Price             decimal.Decimal `json:"price"               validate:"min=0"`
	SKU               *string         `json:"sku"                 validate:"omitempty,max=50"`
	Images            *string         `json:"images"`
	Size              *string         `json:"size"`
	Code              *string         `json:"code"`
	StorageType       *string         `json:"storage_type"`
	Type              *string         `json:"type"`
	Pack              int             `json:"pack"                validate:"omitempty,gt=0"`
	ReorderLevel      int             `json:"reorder_level"       validate:"min=0"`
	StockMovementType *string         `json:"stock_movement_type" validate:"omitempty,oneof=IN"`
	StockQuantity     int             `json:"stock_quantity"      validate:"min=0"`
}

type UpdateProductRequest struct {
	ProductNumber    *int64           `json:"product_number"    validate:"omitempty,gt=0"`
	Name             *string          `json:"name"              validate:"omitempty,min=1,max=255"`
	ShortDescription *string          `json:"short_description"`
	LongDescription  *string          `json:"long_description"`
	Price            *decimal.Decimal `json:"price"`
	SKU              *string          `json:"sku"               validate:"omitempty,max=50"`
	Images           *string          `json:"images"`
	Size             *string          `json:"size"`
	ReorderLevel     *int             `json:"reorder_level"     validate:"omitempty,min=0"`
	Pack             *int             `json:"pack"              validate:"omitempty,gt=0"`
	Type             *string          `json:"type"`
}

// BulkProductRow is one catalog import row. Numbers arrive as strings from
// spreadsheet exports and may carry thousands separators.
type BulkProductRow struct {
	ID               string  `json:"id"    validate:"required"`
	Name             string  `json:"name"  validate:"required"`
	Price            string  `json:"price" validate:"required"`
	Size             *string `json:"size"`
	ShortDescription *string `json:"short_description"`
	LongDescription  *string `json:"long_description"`
	Images           *string `json:"images"`
	Pack             string  `json:"pack"`
	Type             *string `json:"type"`
	StorageType      *string `json:"storage_type"`
	Code             *string `json:"code"`
	Remark           *string `json:"remark"`
	ActiveAt         *string `json:"active_at"`
}

type CreateBundleRequest struct {
	ProductID   int64           `json:"product_id"   validate:"required,gt=0"`
	Code        *string         `json:"code"`
	Name        string          `json:"name"         validate:"required"`
	Price       decimal.Decimal `json:"price"        validate:"min=0"`
	StorageType *string         `json:"storage_type"`
	Pack        int             `json:"pack"         validate:"required,gt=0"`
	Images      *string         `json:"images"`
}

type BulkBundleRow struct {
	Code        string  `json:"code"         validate:"required"`
	Name        string  `json:"name"         validate:"required"`
	Price       string  `json:"price"        validate:"required"`
	StorageType string  `json:"storage_type"`
	Pack        string  `json:"pack"         validate:"required"`
	Images      *string `json:"images"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ProductFilter struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=10"`
	Name   string `form:"name"`
	Search string `form:"search"`
	Date   string `form:"date"`
	Status string `form:"status" validate:"omitempty,oneof=LOW NORMAL OUT_OF_STOCK"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID               int64           `json:"id"`
	ProductNumber    int64           `json:"product_number"`
	Name             string          `json:"name"`
	ShortDescription *string         `json:"short_description"`
	LongDescription  *string         `json:"long_description"`
	Price            decimal.Decimal `json:"price"`
	SKU              *string         `json:"sku"`
	Images           *string         `json:"images"`
	Size             *string         `json:"size"`
	Code             *string         `json:"code"`
	StorageType      *string         `json:"storage_type"`
	Type             *string         `json:"type"`
	Pack             int             `json:"pack"`
	Quantity         int             `json:"quantity"`
	ReorderLevel     int             `json:"reorder_level"`
	Status           string          `json:"status"`
	ActiveAt         *time.Time      `json:"active_at"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Movements        []StockResponse `json:"productstocks,omitempty"`
}

type ReorderLevelResponse struct {
	ID            int64  `json:"id"`
	ProductNumber int64  `json:"product_number"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	Threshold     int    `json:"reorder_level"`
	Status        string `json:"status"`
}

type BundleResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	Code        *string         `json:"code"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	StorageType *string         `json:"storage_type"`
	Quantity    int             `json:"quantity"`
	Pack        int             `json:"pack"`
	Images      *string         `json:"images"`
}

type BulkResult struct {
	Count   int `json:"count"`
	Skipped int `json:"skipped"`
}
