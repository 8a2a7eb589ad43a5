package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

func (c *Client) Register(ctx context.Context, req transport.RegisterRequest) (*transport.User, error) {
	var out transport.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*transport.LoginResponse, error) {
	var out transport.LoginResponse
	req := transport.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (*transport.LoginResponse, error) {
	var out transport.LoginResponse
	req := transport.RefreshRequest{RefreshToken: refreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", nil, req, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	var body any
	if refreshToken != "" {
		body = transport.RefreshRequest{RefreshToken: refreshToken}
	}
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, body, nil)
}

func (c *Client) Me(ctx context.Context) (*transport.User, error) {
	var out transport.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Users(ctx context.Context) ([]transport.User, error) {
	var out []transport.User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, validateAll(out)
}

func (c *Client) Restaurants(ctx context.Context) ([]transport.Restaurant, error) {
	var out []transport.Restaurant
	if err := c.do(ctx, http.MethodGet, "/api/restaurants", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, validateAll(out)
}

func (c *Client) SearchRestaurants(ctx context.Context, q string, page, size int) (*transport.RestaurantPage, error) {
	query := url.Values{"q": {q}}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}
	var out transport.RestaurantPage
	if err := c.do(ctx, http.MethodGet, "/api/restaurants/search", query, nil, &out); err != nil {
		return nil, err
	}
	if err := validateAll(out.Data); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Restaurant(ctx context.Context, id string) (*transport.Restaurant, error) {
	var out transport.Restaurant
	if err := c.do(ctx, http.MethodGet, "/api/restaurants/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Menu(ctx context.Context, restaurantID string) ([]transport.MenuItem, error) {
	var out []transport.MenuItem
	if err := c.do(ctx, http.MethodGet, "/api/restaurants/"+url.PathEscape(restaurantID)+"/menu", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, validateAll(out)
}

func (c *Client) CreateOrder(ctx context.Context, req transport.OrderCreate) (*transport.Order, error) {
	var out transport.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, req, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Orders(ctx context.Context) ([]transport.Order, error) {
	var out []transport.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, validateAll(out)
}

func (c *Client) Order(ctx context.Context, id string) (*transport.Order, error) {
	return c.orderCall(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id))
}

func (c *Client) CheckoutOrder(ctx context.Context, id string) (*transport.Order, error) {
	return c.orderCall(ctx, http.MethodPost, "/api/orders/"+url.PathEscape(id)+"/checkout")
}

func (c *Client) CancelOrder(ctx context.Context, id string) (*transport.Order, error) {
	return c.orderCall(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(id)+"/cancel")
}

func (c *Client) orderCall(ctx context.Context, method, path string) (*transport.Order, error) {
	var out transport.Order
	if err := c.do(ctx, method, path, nil, nil, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PaymentMethods(ctx context.Context) ([]transport.PaymentMethod, error) {
	var out []transport.PaymentMethod
	if err := c.do(ctx, http.MethodGet, "/api/payment-methods", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, validateAll(out)
}

func (c *Client) CreatePaymentMethod(ctx context.Context, req transport.PaymentMethodCreate) (*transport.PaymentMethod, error) {
	var out transport.PaymentMethod
	if err := c.do(ctx, http.MethodPost, "/api/payment-methods", nil, req, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePaymentMethod(ctx context.Context, id string, req transport.PaymentMethodCreate) (*transport.PaymentMethod, error) {
	var out transport.PaymentMethod
	if err := c.do(ctx, http.MethodPut, "/api/payment-methods/"+url.PathEscape(id), nil, req, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePaymentMethod(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/payment-methods/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) Health(ctx context.Context) (*transport.Health, error) {
	var out transport.Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MeWithToken resolves token to its user without touching the client's own
// token source.
func (c *Client) MeWithToken(ctx context.Context, token string) (*transport.User, error) {
	return c.WithToken(token).Me(ctx)
}
