package handler

import (
	"errors"
	"net/http"

	"shop-backend/internal/service"

	"github.com/labstack/echo/v4"
)

// httpError maps service sentinels onto status codes. Anything unmapped
// bubbles up as a 500 through echo's error handler.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrQuantityOutOfRange),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyFavorited),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrAlreadyCanceled):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return err
}
