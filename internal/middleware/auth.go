package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shop-backend/internal/model"
	"shop-backend/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SessionCookieName carries the anonymous container token.
const SessionCookieName = "session_id"

const (
	contextAccountID = "account_id"
	contextIsAdmin   = "is_admin"
	contextScope     = "scope"
)

// Auth extracts the account identity from a bearer token when one is
// present. Requests without a token pass through as anonymous; requests
// with a bad token are rejected.
func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			subject, err := claims.GetSubject()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}
			accountID, err := strconv.ParseUint(subject, 10, 64)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}

			c.Set(contextAccountID, uint(accountID))
			if admin, ok := claims["admin"].(bool); ok && admin {
				c.Set(contextIsAdmin, true)
			}

			return next(c)
		}
	}
}

// Session resolves the container scope for the request: the account when
// authenticated, otherwise the session cookie. A freshly minted token is
// written back as a cookie so the guest keeps their cart.
func Session() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var accountID *uint
			if id, ok := AccountID(c); ok {
				accountID = &id
			}

			var token string
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				token = cookie.Value
			}

			scope, minted, err := service.ResolveScope(accountID, token)
			if errors.Is(err, service.ErrMalformedSessionToken) {
				return echo.NewHTTPError(http.StatusBadRequest, "malformed session token")
			}
			if err != nil {
				return err
			}

			if minted != "" {
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    minted,
					MaxAge:   int(model.ContainerLifetime.Seconds()),
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(contextScope, scope)
			return next(c)
		}
	}
}

func RequireAccount() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := AccountID(c); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if admin, ok := c.Get(contextIsAdmin).(bool); !ok || !admin {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

func AccountID(c echo.Context) (uint, bool) {
	id, ok := c.Get(contextAccountID).(uint)
	return id, ok
}

func Scope(c echo.Context) (model.Scope, bool) {
	scope, ok := c.Get(contextScope).(model.Scope)
	return scope, ok
}

// SessionToken returns the raw cookie value, if any. The merge endpoint
// needs the guest token alongside the account identity.
func SessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
