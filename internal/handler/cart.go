package handler

import (
	"net/http"
	"strconv"

	"shop-backend/internal/dto"
	"shop-backend/internal/middleware"
	"shop-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	scope, ok := middleware.Scope(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "no request scope")
	}

	cart, err := h.cartService.GetOrCreate(ctx, scope)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	scope, ok := middleware.Scope(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "no request scope")
	}

	var req dto.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	item, err := h.cartService.AddItem(ctx, scope, req.ProductID, req.Quantity)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.CartItemResponse{
		ProductID:       item.ProductID,
		Quantity:        item.Quantity,
		PriceAtAddition: item.PriceAtAddition,
		Subtotal:        item.Subtotal(),
	})
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	scope, ok := middleware.Scope(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "no request scope")
	}

	productID, err := productIDParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	item, err := h.cartService.UpdateQuantity(ctx, scope, productID, req.Quantity)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.CartItemResponse{
		ProductID:       item.ProductID,
		Quantity:        item.Quantity,
		PriceAtAddition: item.PriceAtAddition,
		Subtotal:        item.Subtotal(),
	})
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	scope, ok := middleware.Scope(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "no request scope")
	}

	productID, err := productIDParam(c)
	if err != nil {
		return err
	}

	removed, err := h.cartService.RemoveItem(ctx, scope, productID)
	if err != nil {
		return httpError(err)
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "item not in cart")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()

	scope, ok := middleware.Scope(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "no request scope")
	}

	removed, err := h.cartService.Clear(ctx, scope)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ClearResponse{Removed: removed})
}

func productIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("productID"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	return uint(id), nil
}
