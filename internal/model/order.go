package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusUpdated   OrderStatus = "updated"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCanceled  OrderStatus = "canceled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusUpdated, OrderStatusConfirmed,
		OrderStatusShipped, OrderStatusCanceled:
		return true
	}
	return false
}

// Cancellable reports whether a customer may still cancel an order in
// this status. Shipped and canceled orders are out of reach.
func (s OrderStatus) Cancellable() bool {
	switch s {
	case OrderStatusCreated, OrderStatusUpdated, OrderStatusConfirmed:
		return true
	}
	return false
}

// Order is written once from a cart snapshot; only Status and the
// timestamps ever change afterwards.
type Order struct {
	ID          uint        `gorm:"primaryKey"`
	OrderNumber string      `gorm:"size:16;uniqueIndex;not null"`
	AccountID   uint        `gorm:"index;not null"`
	Status      OrderStatus `gorm:"size:16;index;not null"`

	// Customer snapshot captured at checkout.
	FirstName  string `gorm:"size:100;not null"`
	LastName   string `gorm:"size:100;not null"`
	City       string `gorm:"size:100;not null"`
	PostalCode string `gorm:"size:20;not null"`
	Address    string `gorm:"size:300;not null"`
	Phone      string `gorm:"size:30;not null"`
	Email      string `gorm:"size:254;not null"`
	Notes      string `gorm:"size:500"`

	TotalItems int             `gorm:"not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Items     []OrderItem `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem copies quantity, price and product name at purchase time;
// none of it is ever re-derived from the catalog.
type OrderItem struct {
	ID              uint            `gorm:"primaryKey"`
	OrderID         uint            `gorm:"index;not null"`
	ProductID       uint            `gorm:"index;not null"`
	Quantity        int             `gorm:"not null"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ProductName     string          `gorm:"size:200;not null"`
	CreatedAt       time.Time
}
