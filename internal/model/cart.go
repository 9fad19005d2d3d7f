package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinItemQuantity = 1
	MaxItemQuantity = 99

	// Guest containers live this long after their last creation.
	ContainerLifetime = 30 * 24 * time.Hour
)

// Cart belongs to either a guest session or an account, never both.
// The owner columns are unique so two racing first-access requests
// cannot each create a cart for the same owner; NULLs do not collide.
type Cart struct {
	ID        uint       `gorm:"primaryKey"`
	SessionID *string    `gorm:"size:36;uniqueIndex"`
	AccountID *uint      `gorm:"uniqueIndex"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	Items     []CartItem `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem keeps the price at addition time so later catalog price
// changes do not rewrite what the customer put in the cart.
type CartItem struct {
	ID              uint            `gorm:"primaryKey"`
	CartID          uint            `gorm:"uniqueIndex:uq_cart_product;not null"`
	ProductID       uint            `gorm:"uniqueIndex:uq_cart_product;index;not null"`
	Quantity        int             `gorm:"not null"`
	PriceAtAddition decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Subtotal is quantity times the stored price snapshot.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.PriceAtAddition.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ClampQuantity bounds q to [MinItemQuantity, MaxItemQuantity].
func ClampQuantity(q int) int {
	if q > MaxItemQuantity {
		return MaxItemQuantity
	}
	if q < MinItemQuantity {
		return MinItemQuantity
	}
	return q
}
