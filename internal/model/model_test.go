package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusCreated,
		OrderStatusUpdated,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusCanceled,
	} {
		assert.True(t, s.Valid(), "%s", s)
	}

	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("pending").Valid())
	assert.False(t, OrderStatus("CREATED").Valid())
}

func TestOrderStatus_Cancellable(t *testing.T) {
	assert.True(t, OrderStatusCreated.Cancellable())
	assert.True(t, OrderStatusUpdated.Cancellable())
	assert.True(t, OrderStatusConfirmed.Cancellable())
	assert.False(t, OrderStatusShipped.Cancellable())
	assert.False(t, OrderStatusCanceled.Cancellable())
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, MinItemQuantity, ClampQuantity(0))
	assert.Equal(t, MinItemQuantity, ClampQuantity(-5))
	assert.Equal(t, 1, ClampQuantity(1))
	assert.Equal(t, 50, ClampQuantity(50))
	assert.Equal(t, MaxItemQuantity, ClampQuantity(MaxItemQuantity))
	assert.Equal(t, MaxItemQuantity, ClampQuantity(MaxItemQuantity+1))
	assert.Equal(t, MaxItemQuantity, ClampQuantity(1000))
}

func TestCartItem_Subtotal(t *testing.T) {
	line := CartItem{Quantity: 3, PriceAtAddition: decimal.NewFromFloat(12.50)}
	assert.True(t, line.Subtotal().Equal(decimal.NewFromFloat(37.50)))
}

func TestScope(t *testing.T) {
	account := AccountScope(42)
	assert.True(t, account.IsAccount())
	id, ok := account.AccountID()
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
	_, ok = account.Token()
	assert.False(t, ok)
	assert.Equal(t, "account:42", account.String())

	guest := AnonymousScope("abc-123")
	assert.False(t, guest.IsAccount())
	token, ok := guest.Token()
	assert.True(t, ok)
	assert.Equal(t, "abc-123", token)
	_, ok = guest.AccountID()
	assert.False(t, ok)
	assert.Equal(t, "session:abc-123", guest.String())
}
