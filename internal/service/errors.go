package service

import "errors"

var (
	ErrProductUnavailable    = errors.New("product not found or not purchasable")
	ErrAlreadyFavorited      = errors.New("product is already in favorites")
	ErrItemNotFound          = errors.New("item not found in container")
	ErrQuantityOutOfRange    = errors.New("quantity out of allowed range")
	ErrEmptyCart             = errors.New("cart is empty, nothing to checkout")
	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidTransition     = errors.New("order status does not allow this transition")
	ErrAlreadyCanceled       = errors.New("order is already canceled")
	ErrInvalidStatus         = errors.New("unknown order status")
	ErrMalformedSessionToken = errors.New("malformed session token")
)
