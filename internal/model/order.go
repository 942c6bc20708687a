package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is created atomically with all of its lines.
type Order struct {
	ID             string          `gorm:"primaryKey;size:64"`
	OrderCode      string          `gorm:"size:50;index;not null"`
	OrderAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentStatus  string          `gorm:"size:50"`
	PaymentAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ShippingName   *string         `gorm:"size:255"`
	ShippingPhone  *string         `gorm:"size:20;index"`
	ShippingAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	UserID         *int64
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time

	Details []OrderDetail `gorm:"foreignKey:OrderID"`
}

// OrderDetail is one order line. ProductID holds the shop product id, which is
// either a BundleProduct id or a Product.ProductNumber.
type OrderDetail struct {
	ID         int64           `gorm:"primaryKey"`
	OrderID    string          `gorm:"size:64;not null;index"`
	ProductID  int64           `gorm:"not null"`
	Quantity   int             `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Type       *string         `gorm:"size:50"`
	Pack       int             `gorm:"not null;default:1"`
	Gifts      GiftSchedule    `gorm:"embedded;embeddedPrefix:gift_"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GiftTier is one of the fixed promotional categories attached to a line.
type GiftTier string

const (
	GiftNormal250mlPack    GiftTier = "normal_250ml_pack"
	GiftNormal600mlPack    GiftTier = "normal_600ml_pack"
	GiftNormal1500mlPack   GiftTier = "normal_1500ml_pack"
	GiftPremium500mlPack   GiftTier = "premium_500ml_pack"
	GiftPremium500mlCarton GiftTier = "premium_500ml_carton"
)

// GiftSchedule holds the per-tier gift counts of an order line.
type GiftSchedule struct {
	Normal250mlPack    int `gorm:"column:normal_250ml_pack;not null;default:0"`
	Normal600mlPack    int `gorm:"column:normal_600ml_pack;not null;default:0"`
	Normal1500mlPack   int `gorm:"column:normal_1500ml_pack;not null;default:0"`
	Premium500mlPack   int `gorm:"column:premium_500ml_pack;not null;default:0"`
	Premium500mlCarton int `gorm:"column:premium_500ml_carton;not null;default:0"`
}

// GiftAllotment is a (tier, count) pair.
type GiftAllotment struct {
	Tier     GiftTier
	Quantity int
}

// Tiers returns all five tiers in a fixed order, zero counts included.
func (g GiftSchedule) Tiers() []GiftAllotment {
	return []GiftAllotment{
		{GiftNormal250mlPack, g.Normal250mlPack},
		{GiftNormal600mlPack, g.Normal600mlPack},
		{GiftNormal1500mlPack, g.Normal1500mlPack},
		{GiftPremium500mlPack, g.Premium500mlPack},
		{GiftPremium500mlCarton, g.Premium500mlCarton},
	}
}

// Total is the number of gift units across all tiers.
func (g GiftSchedule) Total() int {
	n := 0
	for _, t := range g.Tiers() {
		n += t.Quantity
	}
	return n
}
