package handler

import (
	"net/http"

	"shop-backend/internal/dto"
	"shop-backend/internal/middleware"
	"shop-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type FavoriteHandler struct {
	favoriteService service.FavoriteService
}

func NewFavoriteHandler(favoriteService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
	}
}

func (h *FavoriteHandler) GetFavorites(c echo.Context) error {
	ctx := c.Request().Context()

	scope, ok := middleware.Scope(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "no request scope")
	}

	favorite, err := h.favoriteService.GetOrCreate(ctx, scope)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.NewFavoriteResponse(favorite))
}

func (h *FavoriteHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	scope, ok := middleware.Scope(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "no request scope")
	}

	var req dto.AddFavoriteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	item, err := h.favoriteService.AddItem(ctx, scope, req.ProductID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]uint{"product_id": item.ProductID})
}

func (h *FavoriteHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	scope, ok := middleware.Scope(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "no request scope")
	}

	productID, err := productIDParam(c)
	if err != nil {
		return err
	}

	removed, err := h.favoriteService.RemoveItem(ctx, scope, productID)
	if err != nil {
		return httpError(err)
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "item not in favorites")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *FavoriteHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()

	scope, ok := middleware.Scope(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "no request scope")
	}

	removed, err := h.favoriteService.Clear(ctx, scope)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ClearResponse{Removed: removed})
}
