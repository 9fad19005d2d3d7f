package dto

import (
	"time"

	"shop-backend/internal/model"

	"github.com/shopspring/decimal"
)

type AddCartItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartItemResponse struct {
	ProductID       uint            `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtAddition decimal.Decimal `json:"price_at_addition"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

type CartResponse struct {
	ID         uint               `json:"id"`
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

type ClearResponse struct {
	Removed int64 `json:"removed"`
}

type AddFavoriteRequest struct {
	ProductID uint `json:"product_id"`
}

type FavoriteResponse struct {
	ID         uint   `json:"id"`
	ProductIDs []uint `json:"product_ids"`
}

type CheckoutRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Notes      string `json:"notes,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type OrderItemResponse struct {
	ProductID       uint            `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

type OrderResponse struct {
	ID          uint                `json:"id"`
	OrderNumber string              `json:"order_number"`
	Status      string              `json:"status"`
	TotalItems  int                 `json:"total_items"`
	TotalPrice  decimal.Decimal     `json:"total_price"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
}

func NewCartResponse(cart *model.Cart) CartResponse {
	resp := CartResponse{
		ID:         cart.ID,
		Items:      make([]CartItemResponse, 0, len(cart.Items)),
		TotalPrice: decimal.Zero,
	}
	for _, item := range cart.Items {
		resp.TotalItems += item.Quantity
		resp.TotalPrice = resp.TotalPrice.Add(item.Subtotal())
		resp.Items = append(resp.Items, CartItemResponse{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtAddition: item.PriceAtAddition,
			Subtotal:        item.Subtotal(),
		})
	}
	return resp
}

func NewFavoriteResponse(favorite *model.Favorite) FavoriteResponse {
	resp := FavoriteResponse{
		ID:         favorite.ID,
		ProductIDs: make([]uint, 0, len(favorite.Items)),
	}
	for _, item := range favorite.Items {
		resp.ProductIDs = append(resp.ProductIDs, item.ProductID)
	}
	return resp
}

func NewOrderResponse(order *model.Order) OrderResponse {
	resp := OrderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
		TotalItems:  order.TotalItems,
		TotalPrice:  order.TotalPrice,
		Items:       make([]OrderItemResponse, 0, len(order.Items)),
		CreatedAt:   order.CreatedAt,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return resp
}
