package model

import "time"

// MovementType is the kind of ledger entry. Quantity on the row is always
// positive; the type carries the sign.
type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
	// MovementTransfer is recorded for traceability only and never changes
	// on-hand quantity.
	MovementTransfer MovementType = "TRANSFER"
)

// Sign is +1 for IN, -1 for OUT and 0 for TRANSFER.
func (t MovementType) Sign() int {
	switch t {
	case MovementIn:
		return 1
	case MovementOut:
		return -1
	default:
		return 0
	}
}

// Contribution is the signed effect of quantity units of this type on a
// product's on-hand quantity.
func (t MovementType) Contribution(quantity int) int {
	return t.Sign() * quantity
}

// Valid reports whether t is one of the known movement types.
func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut || t == MovementTransfer
}

const (
	RemarkBySystem     = "By System"
	RemarkGiftBySystem = "Gift by System"
)

// StockMovement is one ledger row.
type StockMovement struct {
	ID           int64        `gorm:"primaryKey"`
	ProductID    int64        `gorm:"not null;index"`
	MovementType MovementType `gorm:"type:varchar(16);not null;index"`
	Quantity     int          `gorm:"not null"`
	Remarks      *string
	CreatedBy    *int64    `gorm:"index"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
	User    *User    `gorm:"foreignKey:CreatedBy"`
}

// Contribution is the row's signed effect on its product's quantity.
func (m *StockMovement) Contribution() int {
	return m.MovementType.Contribution(m.Quantity)
}
