package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// GiftInput carries the five gift tiers. Pointers let validation tell a
// missing tier apart from an explicit zero.
type GiftInput struct {
	Normal250mlPack    *int `json:"normal_250ml_pack"    validate:"required,min=0"`
	Normal600mlPack    *int `json:"normal_600ml_pack"    validate:"required,min=0"`
	Normal1500mlPack   *int `json:"normal_1500ml_pack"   validate:"required,min=0"`
	Premium500mlPack   *int `json:"premium_500ml_pack"   validate:"required,min=0"`
	Premium500mlCarton *int `json:"premium_500ml_carton" validate:"required,min=0"`
}

type OrderLineRequest struct {
	ShopOrderID   string          `json:"shop_order_id"   validate:"required"`
	ShopProductID int64           `json:"shop_product_id" validate:"required,gt=0"`
	Quantity      int             `json:"quantity"        validate:"required,gt=0"`
	Price         decimal.Decimal `json:"price"`
	Type          *string         `json:"type"`
	Pack          int             `json:"pack"            validate:"required,gt=0"`
	Gift          *GiftInput      `json:"gift"            validate:"required"`
}

type CreateOrderRequest struct {
	ID             string             `json:"id"              validate:"required"`
	OrderCode      string             `json:"order_code"      validate:"required"`
	OrderAmount    decimal.Decimal    `json:"order_amount"    validate:"gt=0"`
	PaymentStatus  string             `json:"payment_status"  validate:"required"`
	ShippingName   *string            `json:"shipping_name"`
	ShippingPhone  *string            `json:"shipping_phone"  validate:"omitempty,max=20"`
	ShippingAmount *decimal.Decimal   `json:"shipping_amount"`
	OrderDetails   []OrderLineRequest `json:"orderDetails"    validate:"required,min=1,dive"`
}

// BulkOrderRow is one order header import row; amounts may carry thousands
// separators.
type BulkOrderRow struct {
	ID             string  `json:"id"             validate:"required"`
	OrderCode      string  `json:"order_code"     validate:"required"`
	OrderAmount    string  `json:"order_amount"   validate:"required"`
	ShippingAmount string  `json:"shipping_amount"`
	PaymentAmount  *string `json:"payment_amount"`
	PaymentStatus  *string `json:"payment_status"`
	ShippingName   *string `json:"shipping_name"`
	ShippingPhone  *string `json:"shipping_phone"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type OrderFilter struct {
	Page    int    `form:"page,default=1"`
	Limit   int    `form:"limit,default=10"`
	Date    string `form:"date"`
	Search  string `form:"search"`
	Phone   string `form:"phone"`
	OrderID string `form:"orderId"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type GiftResponse struct {
	Normal250mlPack    int `json:"normal_250ml_pack"`
	Normal600mlPack    int `json:"normal_600ml_pack"`
	Normal1500mlPack   int `json:"normal_1500ml_pack"`
	Premium500mlPack   int `json:"premium_500ml_pack"`
	Premium500mlCarton int `json:"premium_500ml_carton"`
}

type OrderDetailResponse struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Type       *string         `json:"type"`
	Pack       int             `json:"pack"`
	Gift       GiftResponse    `json:"gift"`
}

type OrderResponse struct {
	ID             string                `json:"id"`
	OrderCode      string                `json:"order_code"`
	OrderAmount    decimal.Decimal       `json:"order_amount"`
	PaymentStatus  string                `json:"payment_status"`
	PaymentAmount  decimal.Decimal       `json:"payment_amount"`
	ShippingName   *string               `json:"shipping_name"`
	ShippingPhone  *string               `json:"shipping_phone"`
	ShippingAmount decimal.Decimal       `json:"shipping_amount"`
	CreatedAt      time.Time             `json:"created_at"`
	Details        []OrderDetailResponse `json:"orderdetails,omitempty"`
}
