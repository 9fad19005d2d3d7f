package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, accountID string, admin bool, secret string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": accountID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if admin {
		claims["admin"] = true
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func invoke(req *http.Request, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return rec, c, handler(c)
}

func TestAuth_NoHeaderPassesThroughAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, c, err := invoke(req, Auth(testSecret))
	require.NoError(t, err)

	_, ok := AccountID(c)
	assert.False(t, ok)
}

func TestAuth_ValidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, "42", false, testSecret))

	_, c, err := invoke(req, Auth(testSecret))
	require.NoError(t, err)

	id, ok := AccountID(c)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestAuth_BadToken(t *testing.T) {
	for name, header := range map[string]string{
		"garbage":         "Bearer not-a-token",
		"wrong secret":    "Bearer " + signToken(t, "42", false, "other-secret"),
		"non-numeric sub": "Bearer " + signToken(t, "alice", false, testSecret),
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(echo.HeaderAuthorization, header)

			_, _, err := invoke(req, Auth(testSecret))
			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		})
	}
}

func TestSession_MintsCookieForNewGuest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec, c, err := invoke(req, Session())
	require.NoError(t, err)

	scope, ok := Scope(c)
	require.True(t, ok)
	assert.False(t, scope.IsAccount())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	_, err = uuid.Parse(cookies[0].Value)
	assert.NoError(t, err)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSession_ReusesExistingCookie(t *testing.T) {
	token := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})

	rec, c, err := invoke(req, Session())
	require.NoError(t, err)

	scope, ok := Scope(c)
	require.True(t, ok)
	got, ok := scope.Token()
	require.True(t, ok)
	assert.Equal(t, token, got)

	// No new cookie minted.
	assert.Empty(t, rec.Result().Cookies())
}

func TestSession_RejectsMalformedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "definitely-not-a-uuid"})

	_, _, err := invoke(req, Session())
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestSession_AccountWinsOverCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, "7", false, testSecret))
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: uuid.NewString()})

	_, c, err := invoke(req, Auth(testSecret), Session())
	require.NoError(t, err)

	scope, ok := Scope(c)
	require.True(t, ok)
	assert.Equal(t, model.AccountScope(7), scope)
}

func TestRequireAccountAndAdmin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, _, err := invoke(req, RequireAccount())
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, "7", false, testSecret))
	_, _, err = invoke(req, Auth(testSecret), RequireAccount(), RequireAdmin())
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, "7", true, testSecret))
	_, _, err = invoke(req, Auth(testSecret), RequireAccount(), RequireAdmin())
	assert.NoError(t, err)
}
