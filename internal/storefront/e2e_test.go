package storefront

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_ordering/internal/apperr"
	"github.com/Skotchmaster/food_ordering/internal/models"
	"github.com/Skotchmaster/food_ordering/internal/repo"
	"github.com/Skotchmaster/food_ordering/internal/seed"
	"github.com/Skotchmaster/food_ordering/internal/service"
	httpserver "github.com/Skotchmaster/food_ordering/internal/transport/http"
	pkgdb "github.com/Skotchmaster/food_ordering/pkg/db"
	"github.com/Skotchmaster/food_ordering/pkg/logging"
	authmw "github.com/Skotchmaster/food_ordering/pkg/middleware/auth"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

func startServer(t *testing.T) string {
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
	authHTTP := &httpserver.AuthHTTP{Svc: authSvc}

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		Auth:    authHTTP,
		Catalog: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		Orders:  &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r}},
		Payment: &httpserver.PaymentHTTP{Svc: &service.PaymentService{Repo: r}},
		Users:   &httpserver.UserHTTP{Svc: &service.UserService{Repo: r}},
		Health:  &httpserver.HealthHTTP{DB: db},
		AuthMW:  authmw.NewAuthMiddleware(authSvc.JWTSecret, authHTTP.RefreshFunc()),
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv.URL
}

func findRestaurant(t *testing.T, list []transport.Restaurant, name string) transport.Restaurant {
	t.Helper()
	for _, r := range list {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("restaurant %q not listed", name)
	return transport.Restaurant{}
}

func TestEndToEnd_ManagerOrdersFromOwnCountry(t *testing.T) {
	ctx := context.Background()
	s := NewWithClient(startServer(t), nil, logging.Discard())

	_, err := s.Login(ctx, "captainmarvel", "manager123")
	require.NoError(t, err)

	list, err := s.Restaurants(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5)
	spice := findRestaurant(t, list, "Spice Garden")

	view, err := s.LoadMenu(ctx, spice.ID)
	require.NoError(t, err)
	require.NotEmpty(t, view.Items)
	assert.NotEmpty(t, view.Categories)

	item := view.Items[0]
	require.NoError(t, s.AddToCart(ctx, item, view.Restaurant))
	require.NoError(t, s.AddToCart(ctx, item, view.Restaurant))

	res, err := s.PlaceOrder(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, PathOrders, res.Redirect)
	assert.Equal(t, transport.OrderStatusPending, res.Order.Status)
	assert.True(t, item.Price.Mul(decimal.NewFromInt(2)).Equal(res.Order.TotalAmount))
	assert.Empty(t, s.CartLines())

	o, err := s.CheckoutOrder(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, transport.OrderStatusCompleted, o.Status)

	_, err = s.CancelOrder(ctx, res.Order.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "order is already completed", apperr.Message(err))

	s.Logout(ctx)
	_, err = s.Restaurants(ctx)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestEndToEnd_MemberIsScopedAndCannotOrder(t *testing.T) {
	ctx := context.Background()
	s := NewWithClient(startServer(t), nil, logging.Discard())

	_, err := s.Login(ctx, "travis", "member123")
	require.NoError(t, err)

	list, err := s.Restaurants(ctx)
	require.NoError(t, err)
	for _, r := range list {
		assert.Equal(t, "AMERICA", string(r.Country))
	}

	burger := findRestaurant(t, list, "The Burger Joint")
	view, err := s.LoadMenu(ctx, burger.ID)
	require.NoError(t, err)
	require.NoError(t, s.AddToCart(ctx, view.Items[0], view.Restaurant))

	_, err = s.PlaceOrder(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Len(t, s.CartLines(), 1)

	_, err = s.Users(ctx)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestEndToEnd_CrossCountryMenuFails(t *testing.T) {
	ctx := context.Background()
	url := startServer(t)

	admin := NewWithClient(url, nil, logging.Discard())
	_, err := admin.Login(ctx, "nickfury", "admin123")
	require.NoError(t, err)
	list, err := admin.Restaurants(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 10)
	spice := findRestaurant(t, list, "Spice Garden")

	member := NewWithClient(url, nil, logging.Discard())
	_, err = member.Login(ctx, "travis", "member123")
	require.NoError(t, err)

	view, err := member.LoadMenu(ctx, spice.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Nil(t, view)
}
