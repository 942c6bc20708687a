package model

import "github.com/shopspring/decimal"

// BundleProduct is a composite SKU. Selling one bundle unit consumes Pack
// units of the underlying product; the bundle row itself holds no stock.
type BundleProduct struct {
	ID          int64           `gorm:"primaryKey"`
	ProductID   int64           `gorm:"not null;index"`
	Code        *string         `gorm:"size:50"`
	Name        string          `gorm:"size:255;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StorageType *string         `gorm:"size:55"`
	Quantity    int             `gorm:"not null;default:0"`
	Pack        int             `gorm:"not null;default:1"`
	Images      *string

	Product *Product `gorm:"foreignKey:ProductID"`
}
