package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the stock-carrying catalog entry. Quantity is only ever changed
// by the stock ledger; catalog edits leave it untouched.
type Product struct {
	ID               int64   `gorm:"primaryKey"`
	ProductNumber    int64   `gorm:"uniqueIndex;not null"`
	Name             string  `gorm:"size:255;index;not null"`
	ShortDescription *string `gorm:"size:255"`
	LongDescription  *string
	Price            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SKU              *string         `gorm:"column:sku;size:50"`
	Images           *string
	Size             *string `gorm:"size:55"`
	Code             *string `gorm:"size:50;index"`
	StorageType      *string `gorm:"size:55"`
	Type             *string `gorm:"size:55"`
	Remarks          *string
	Pack             int        `gorm:"not null;default:1"`
	Quantity         int        `gorm:"not null;default:0"`
	ReorderLevel     int        `gorm:"not null;default:0"`
	ActiveAt         *time.Time // nil = not yet published
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Movements []StockMovement `gorm:"foreignKey:ProductID"`
}

// StockStatus classifies on-hand quantity for dashboards and filters.
type StockStatus string

const (
	StockOutOfStock StockStatus = "OUT_OF_STOCK"
	StockLow        StockStatus = "LOW"
	StockNormal     StockStatus = "NORMAL"
)

// Threshold returns the product's reorder level, or fallback when unset.
func (p *Product) Threshold(fallback int) int {
	if p.ReorderLevel > 0 {
		return p.ReorderLevel
	}
	return fallback
}

// Status classifies the product using its own reorder level, or fallback.
func (p *Product) Status(fallback int) StockStatus {
	switch {
	case p.Quantity <= 0:
		return StockOutOfStock
	case p.Quantity <= p.Threshold(fallback):
		return StockLow
	default:
		return StockNormal
	}
}
