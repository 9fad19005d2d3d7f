package handler

import (
	"net/http"

	"shop-backend/internal/middleware"
	"shop-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type SessionHandler struct {
	mergeService service.MergeService
}

func NewSessionHandler(mergeService service.MergeService) *SessionHandler {
	return &SessionHandler{
		mergeService: mergeService,
	}
}

// Claim folds the guest session's cart and favorites into the account.
// The auth flow calls it once right after a successful login or
// registration, while the session cookie is still on the request.
func (h *SessionHandler) Claim(c echo.Context) error {
	ctx := c.Request().Context()

	accountID, ok := middleware.AccountID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	token := middleware.SessionToken(c)
	if token == "" {
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.mergeService.MergeOnAuth(ctx, accountID, token); err != nil {
		return httpError(err)
	}

	// The guest container is gone; drop the cookie.
	c.SetCookie(&http.Cookie{
		Name:   middleware.SessionCookieName,
		Value:  "",
		MaxAge: -1,
		Path:   "/",
	})

	return c.NoContent(http.StatusNoContent)
}
