package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateStockRequest struct {
	ProductID    int64   `json:"product_id"`
	MovementType string  `json:"movement_type" validate:"required,oneof=IN OUT TRANSFER"`
	Quantity     int     `json:"quantity"      validate:"required,gt=0"`
	Remarks      *string `json:"remarks"`
	CreatedAt    *string `json:"created_at"` // RFC 3339 or YYYY-MM-DD
}

type UpdateStockRequest struct {
	MovementType string  `json:"movement_type" validate:"required,oneof=IN OUT TRANSFER"`
	Quantity     int     `json:"quantity"      validate:"required,gt=0"`
	Remarks      *string `json:"remarks"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type StockFilter struct {
	Page         int    `form:"page,default=1"`
	Limit        int    `form:"limit,default=10"`
	Name         string `form:"name"`
	MovementType string `form:"movementType"`
	Date         string `form:"date"`
	Search       string `form:"search"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type NameRef struct {
	Name string `json:"name"`
}

type StockResponse struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	MovementType string    `json:"movement_type"`
	Quantity     int       `json:"quantity"`
	Remarks      *string   `json:"remarks"`
	CreatedBy    *int64    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Product      *NameRef  `json:"product,omitempty"`
	User         *NameRef  `json:"user,omitempty"`
}

// ProductStockResponse acknowledges a movement recorded through the product
// stock endpoint; Data carries the new movement.
type ProductStockResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Data    StockResponse `json:"data"`
}

type StockCountResponse struct {
	Total    int64 `json:"total"`
	In       int64 `json:"in"`
	Out      int64 `json:"out"`
	Transfer int64 `json:"transfer"`
}
