package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/pkg/tokens"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

var secret = []byte("test-secret")

func token(t *testing.T, role access.Role, exp time.Time) string {
	t.Helper()
	tkn, err := tokens.NewAccessToken(secret, "u1", "thor", role, access.CountryIndia, exp)
	require.NoError(t, err)
	return tkn
}

func newEcho(m *AuthMiddleware, mws ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	chain := append([]echo.MiddlewareFunc{m.RequireAuth}, mws...)
	e.GET("/p", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"user_id": c.Get(KeyUserID),
			"role":    c.Get(KeyRole),
			"country": c.Get(KeyCountry),
		})
	}, chain...)
	return e
}

func do(e *echo.Echo, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth_Bearer(t *testing.T) {
	e := newEcho(NewAuthMiddleware(secret, nil))
	tkn := token(t, access.RoleMember, time.Now().Add(time.Minute))

	rec := do(e, func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+tkn) })
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"u1","role":"MEMBER","country":"INDIA"}`, rec.Body.String())
}

func TestRequireAuth_CookieFallback(t *testing.T) {
	e := newEcho(NewAuthMiddleware(secret, nil))
	tkn := token(t, access.RoleManager, time.Now().Add(time.Minute))

	rec := do(e, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: tkn}) })
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_Rejects(t *testing.T) {
	e := newEcho(NewAuthMiddleware(secret, nil))

	assert.Equal(t, http.StatusUnauthorized, do(e, nil).Code)

	rec := do(e, func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer nonsense") })
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other, err := tokens.NewAccessToken([]byte("other"), "u1", "thor", access.RoleAdmin, access.CountryIndia, time.Now().Add(time.Minute))
	require.NoError(t, err)
	rec = do(e, func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+other) })
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired := token(t, access.RoleAdmin, time.Now().Add(-time.Minute))
	rec = do(e, func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+expired) })
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_AutoRefresh(t *testing.T) {
	fresh := token(t, access.RoleAdmin, time.Now().Add(time.Minute))
	var gotRefresh string
	refresh := func(_ context.Context, rt string) (*transport.LoginResponse, error) {
		gotRefresh = rt
		if rt != "good-refresh" {
			return nil, errors.New("revoked")
		}
		return &transport.LoginResponse{
			AccessToken:  fresh,
			RefreshToken: "next-refresh",
			AccessExp:    time.Now().Add(time.Minute).Unix(),
			RefreshExp:   time.Now().Add(time.Hour).Unix(),
		}, nil
	}
	e := newEcho(NewAuthMiddleware(secret, refresh))
	expired := token(t, access.RoleAdmin, time.Now().Add(-time.Minute))

	rec := do(e, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: expired})
		r.AddCookie(&http.Cookie{Name: tokens.RefreshCookie, Value: "good-refresh"})
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "good-refresh", gotRefresh)

	var names []string
	for _, ck := range rec.Result().Cookies() {
		names = append(names, ck.Name)
	}
	assert.ElementsMatch(t, []string{tokens.AccessCookie, tokens.RefreshCookie}, names)

	rec = do(e, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: expired})
		r.AddCookie(&http.Cookie{Name: tokens.RefreshCookie, Value: "stale"})
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: expired}) })
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAction(t *testing.T) {
	e := newEcho(NewAuthMiddleware(secret, nil), RequireAction(access.ActionPlaceOrder))

	member := token(t, access.RoleMember, time.Now().Add(time.Minute))
	rec := do(e, func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+member) })
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "access denied. required roles: ADMIN, MANAGER")

	manager := token(t, access.RoleManager, time.Now().Add(time.Minute))
	rec = do(e, func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+manager) })
	assert.Equal(t, http.StatusOK, rec.Code)
}
