package handler

import (
	"net/http"
	"strconv"

	"shop-backend/internal/dto"
	"shop-backend/internal/middleware"
	"shop-backend/internal/model"
	"shop-backend/internal/service"

	"github.com/labstack/echo/v4"
)

const defaultPageSize = 100

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	accountID, ok := middleware.AccountID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.orderService.Checkout(ctx, accountID, service.CustomerInfo{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		City:       req.City,
		PostalCode: req.PostalCode,
		Address:    req.Address,
		Phone:      req.Phone,
		Email:      req.Email,
		Notes:      req.Notes,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.NewOrderResponse(order))
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	accountID, ok := middleware.AccountID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.GetByID(ctx, accountID, orderID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	accountID, ok := middleware.AccountID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	offset, limit := pagination(c)
	orders, err := h.orderService.ListByAccount(ctx, accountID, offset, limit)
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, dto.NewOrderResponse(order))
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	accountID, ok := middleware.AccountID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.Cancel(ctx, accountID, orderID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// ListAll is the admin view: all accounts, optional status filter.
func (h *OrderHandler) ListAll(c echo.Context) error {
	ctx := c.Request().Context()

	var status *model.OrderStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := model.OrderStatus(raw)
		if !s.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown order status")
		}
		status = &s
	}

	offset, limit := pagination(c)
	orders, err := h.orderService.ListAll(ctx, status, offset, limit)
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, dto.NewOrderResponse(order))
	}

	return c.JSON(http.StatusOK, resp)
}

// UpdateStatus is the unrestricted admin transition.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.orderService.UpdateStatus(ctx, orderID, model.OrderStatus(req.Status))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

func orderIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	return uint(id), nil
}

func pagination(c echo.Context) (offset, limit int) {
	limit = defaultPageSize
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return offset, limit
}
