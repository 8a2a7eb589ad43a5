package storefront

import (
	"context"
	"sync"

	"github.com/Skotchmaster/food_ordering/internal/session"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

// API is the part of apiclient.Client the storefront talks to.
type API interface {
	Login(ctx context.Context, username, password string) (*transport.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	MeWithToken(ctx context.Context, token string) (*transport.User, error)

	Users(ctx context.Context) ([]transport.User, error)
	Restaurants(ctx context.Context) ([]transport.Restaurant, error)
	SearchRestaurants(ctx context.Context, q string, page, size int) (*transport.RestaurantPage, error)
	Restaurant(ctx context.Context, id string) (*transport.Restaurant, error)
	Menu(ctx context.Context, restaurantID string) ([]transport.MenuItem, error)

	CreateOrder(ctx context.Context, req transport.OrderCreate) (*transport.Order, error)
	Orders(ctx context.Context) ([]transport.Order, error)
	CheckoutOrder(ctx context.Context, id string) (*transport.Order, error)
	CancelOrder(ctx context.Context, id string) (*transport.Order, error)

	PaymentMethods(ctx context.Context) ([]transport.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, req transport.PaymentMethodCreate) (*transport.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, id string, req transport.PaymentMethodCreate) (*transport.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, id string) error
}

func identityOf(u transport.User) session.Identity {
	return session.Identity{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
		Country:  u.Country,
	}
}

// apiAuthenticator logs in over the API and keeps the refresh token so that
// logout can revoke it.
type apiAuthenticator struct {
	api API

	mu      sync.Mutex
	refresh string
}

func (a *apiAuthenticator) Authenticate(ctx context.Context, username, password string) (string, session.Identity, error) {
	resp, err := a.api.Login(ctx, username, password)
	if err != nil {
		return "", session.Identity{}, err
	}
	a.mu.Lock()
	a.refresh = resp.RefreshToken
	a.mu.Unlock()
	return resp.AccessToken, identityOf(resp.User), nil
}

func (a *apiAuthenticator) Identify(ctx context.Context, token string) (session.Identity, error) {
	u, err := a.api.MeWithToken(ctx, token)
	if err != nil {
		return session.Identity{}, err
	}
	return identityOf(*u), nil
}

func (a *apiAuthenticator) takeRefresh() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	rt := a.refresh
	a.refresh = ""
	return rt
}
