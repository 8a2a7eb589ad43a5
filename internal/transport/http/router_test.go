package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_ordering/internal/models"
	"github.com/Skotchmaster/food_ordering/internal/repo"
	"github.com/Skotchmaster/food_ordering/internal/seed"
	"github.com/Skotchmaster/food_ordering/internal/service"
	pkgdb "github.com/Skotchmaster/food_ordering/pkg/db"
	authmw "github.com/Skotchmaster/food_ordering/pkg/middleware/auth"
	"github.com/Skotchmaster/food_ordering/pkg/tokens"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

type testServer struct {
	e    *echo.Echo
	repo *repo.GormRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ctx := context.Background()
	db, err := pkgdb.OpenMemory(ctx)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	r := &repo.GormRepo{DB: db}
	_, err = seed.Seed(ctx, r, 4)
	require.NoError(t, err)

	authSvc := &service.AuthService{
		Repo:          r,
		JWTSecret:     []byte("access"),
		RefreshSecret: []byte("refresh"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
	authHTTP := &AuthHTTP{Svc: authSvc}

	e := echo.New()
	Register(e, &Deps{
		Auth:    authHTTP,
		Catalog: &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		Orders:  &OrderHTTP{Svc: &service.OrderService{Repo: r}},
		Payment: &PaymentHTTP{Svc: &service.PaymentService{Repo: r}},
		Users:   &UserHTTP{Svc: &service.UserService{Repo: r}},
		Health:  &HealthHTTP{DB: db},
		AuthMW:  authmw.NewAuthMiddleware(authSvc.JWTSecret, authHTTP.RefreshFunc()),
	})
	return &testServer{e: e, repo: r}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, username, password string) transport.LoginResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", transport.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transport.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NoError(t, resp.Validate())
	return resp
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, rec)["message"]
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[transport.Health](t, rec).Status)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", nil).Code)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", transport.LoginRequest{Username: "thor", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid username or password", message(t, rec))

	rec = s.do(t, http.MethodPost, "/api/auth/register", "", transport.RegisterRequest{Username: "loki", Password: "mischief", Country: "INDIA"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "MEMBER", string(decode[transport.User](t, rec).Role))

	rec = s.do(t, http.MethodPost, "/api/auth/register", "", transport.RegisterRequest{Username: "loki", Password: "mischief", Country: "INDIA"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "username already registered", message(t, rec))

	login := s.login(t, "loki", "mischief")
	assert.Equal(t, "bearer", login.TokenType)

	rec = s.do(t, http.MethodGet, "/api/auth/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "loki", decode[transport.User](t, rec).Username)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/auth/me", "", nil).Code)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", transport.RefreshRequest{RefreshToken: login.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	next := decode[transport.LoginResponse](t, rec)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", transport.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", next.AccessToken, transport.RefreshRequest{RefreshToken: next.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", transport.RefreshRequest{RefreshToken: next.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_FromCookie(t *testing.T) {
	s := newTestServer(t)
	login := s.login(t, "travis", "member123")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: tokens.RefreshCookie, Value: login.RefreshToken})
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestRestaurants_CountryScoped(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "nickfury", "admin123").AccessToken
	thor := s.login(t, "thor", "member123").AccessToken

	rec := s.do(t, http.MethodGet, "/api/restaurants", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[[]transport.Restaurant](t, rec)
	assert.Len(t, all, 10)

	rec = s.do(t, http.MethodGet, "/api/restaurants", thor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	india := decode[[]transport.Restaurant](t, rec)
	assert.Len(t, india, 5)

	var burger transport.Restaurant
	for _, r := range all {
		if r.Name == "The Burger Joint" {
			burger = r
		}
	}
	require.NotEmpty(t, burger.ID)

	rec = s.do(t, http.MethodGet, "/api/restaurants/"+burger.ID, thor, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "access denied to this restaurant", message(t, rec))

	rec = s.do(t, http.MethodGet, "/api/restaurants/"+burger.ID+"/menu", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]transport.MenuItem](t, rec), 4)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/restaurants/missing", admin, nil).Code)

	rec = s.do(t, http.MethodGet, "/api/restaurants/search?q=pizza&page=1&size=5", thor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[transport.RestaurantPage](t, rec).Data)

	rec = s.do(t, http.MethodGet, "/api/restaurants/search?q=pizza", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[transport.RestaurantPage](t, rec)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Pizza Paradise", page.Data[0].Name)
	assert.Equal(t, int64(1), page.Meta.Total)
}

func TestUsers_AdminOnly(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/users", s.login(t, "captainmarvel", "manager123").AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "access denied. required roles: ADMIN", message(t, rec))

	rec = s.do(t, http.MethodGet, "/api/users", s.login(t, "nickfury", "admin123").AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]transport.User](t, rec), 6)
}

func menuOf(t *testing.T, s *testServer, token, name string) []transport.MenuItem {
	t.Helper()
	rec := s.do(t, http.MethodGet, "/api/restaurants", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, r := range decode[[]transport.Restaurant](t, rec) {
		if r.Name == name {
			rec = s.do(t, http.MethodGet, "/api/restaurants/"+r.ID+"/menu", token, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			return decode[[]transport.MenuItem](t, rec)
		}
	}
	t.Fatalf("restaurant %q not visible", name)
	return nil
}

func TestOrders_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	marvel := s.login(t, "captainmarvel", "manager123").AccessToken
	america := s.login(t, "captainamerica", "manager123").AccessToken
	thor := s.login(t, "thor", "member123").AccessToken

	menu := menuOf(t, s, marvel, "Spice Garden")
	req := transport.OrderCreate{Items: []transport.OrderItemCreate{
		{MenuItemID: menu[0].ID, Quantity: 2, Price: menu[0].Price},
		{MenuItemID: menu[1].ID, Quantity: 1, Price: menu[1].Price},
	}}
	want := menu[0].Price.Mul(decimal.NewFromInt(2)).Add(menu[1].Price)

	rec := s.do(t, http.MethodPost, "/api/orders", thor, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "access denied. required roles: ADMIN, MANAGER", message(t, rec))

	rec = s.do(t, http.MethodPost, "/api/orders", america, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/orders", marvel, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[transport.Order](t, rec)
	require.NoError(t, order.Validate())
	assert.Equal(t, transport.OrderStatusPending, order.Status)
	assert.True(t, want.Equal(order.TotalAmount), "%s != %s", want, order.TotalAmount)

	rec = s.do(t, http.MethodGet, "/api/orders", thor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]transport.Order](t, rec))

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/orders/"+order.ID, thor, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/orders/"+order.ID, america, nil).Code)

	rec = s.do(t, http.MethodGet, "/api/orders/"+order.ID, marvel, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/orders/"+order.ID+"/checkout", america, nil).Code)

	rec = s.do(t, http.MethodPost, "/api/orders/"+order.ID+"/checkout", marvel, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, transport.OrderStatusCompleted, decode[transport.Order](t, rec).Status)

	rec = s.do(t, http.MethodPut, "/api/orders/"+order.ID+"/cancel", marvel, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/orders", marvel, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode[transport.Order](t, rec)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPut, "/api/orders/"+second.ID+"/cancel", thor, nil).Code)

	rec = s.do(t, http.MethodPut, "/api/orders/"+second.ID+"/cancel", marvel, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, transport.OrderStatusCancelled, decode[transport.Order](t, rec).Status)

	rec = s.do(t, http.MethodPut, "/api/orders/"+second.ID+"/cancel", marvel, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "order is already cancelled", message(t, rec))

	rec = s.do(t, http.MethodGet, "/api/orders", marvel, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]transport.Order](t, rec), 2)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/orders", marvel, transport.OrderCreate{}).Code)
}

func TestPaymentMethods_AdminOnly(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "nickfury", "admin123").AccessToken
	marvel := s.login(t, "captainmarvel", "manager123").AccessToken

	rec := s.do(t, http.MethodGet, "/api/payment-methods", marvel, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]transport.PaymentMethod](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, transport.PaymentUPI, mine[0].Type)

	rec = s.do(t, http.MethodPost, "/api/payment-methods", marvel, transport.PaymentMethodCreate{Type: transport.PaymentUPI})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "access denied. required roles: ADMIN", message(t, rec))

	last4 := "123"
	rec = s.do(t, http.MethodPost, "/api/payment-methods", admin, transport.PaymentMethodCreate{Type: transport.PaymentDebitCard, CardLast4: &last4})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	last4 = "1234"
	rec = s.do(t, http.MethodPost, "/api/payment-methods", admin, transport.PaymentMethodCreate{Type: transport.PaymentDebitCard, CardLast4: &last4, IsDefault: true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	debit := decode[transport.PaymentMethod](t, rec)

	rec = s.do(t, http.MethodGet, "/api/payment-methods", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]transport.PaymentMethod](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, debit.ID, list[0].ID)
	assert.False(t, list[1].IsDefault)

	rec = s.do(t, http.MethodPut, "/api/payment-methods/"+debit.ID, admin, transport.PaymentMethodCreate{Type: transport.PaymentPayPal})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, transport.PaymentPayPal, decode[transport.PaymentMethod](t, rec).Type)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, "/api/payment-methods/missing", admin, transport.PaymentMethodCreate{Type: transport.PaymentUPI}).Code)

	rec = s.do(t, http.MethodDelete, "/api/payment-methods/"+debit.ID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "payment method deleted", message(t, rec))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/payment-methods/"+debit.ID, admin, nil).Code)
}
