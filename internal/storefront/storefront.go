package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/apperr"
	"github.com/Skotchmaster/food_ordering/internal/cart"
	"github.com/Skotchmaster/food_ordering/internal/session"
	"github.com/Skotchmaster/food_ordering/pkg/apiclient"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

// PathOrders is where a successful order submission sends the user.
const PathOrders = "/orders"

const (
	actLogin         = "login"
	actPlaceOrder    = "place_order"
	actCheckout      = "checkout_order"
	actCancel        = "cancel_order"
	actCreatePayment = "create_payment_method"
	actUpdatePayment = "update_payment_method"
	actDeletePayment = "delete_payment_method"
)

// Storefront holds everything one signed-in user works with: the session, the
// cart and the API they talk to.
type Storefront struct {
	api     API
	auth    *apiAuthenticator
	session *session.Session
	store   CartStore
	log     *slog.Logger

	mu   sync.Mutex
	cart *cart.Cart

	flights flights
}

func New(api API, store CartStore, logger *slog.Logger) *Storefront {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	auth := &apiAuthenticator{api: api}
	return &Storefront{
		api:     api,
		auth:    auth,
		session: session.New(auth),
		store:   store,
		log:     logger.With("component", "storefront"),
		cart:    cart.New(),
	}
}

// NewWithClient builds a storefront on an apiclient.Client that sends the
// session's current token.
func NewWithClient(baseURL string, store CartStore, logger *slog.Logger) *Storefront {
	var s *Storefront
	c := apiclient.NewClient(baseURL, func() string { return s.session.Token() })
	s = New(c, store, logger)
	return s
}

func (s *Storefront) Session() *session.Session { return s.session }

// Login binds the session to username. When a rejected login drops the user
// that was signed in before, their refresh token and cart go with them.
func (s *Storefront) Login(ctx context.Context, username, password string) (session.Identity, error) {
	return guard(&s.flights, actLogin, "", func() (session.Identity, error) {
		prev, hadPrev := s.session.CurrentUser()
		id, err := s.session.Login(ctx, username, password)
		if err != nil {
			s.log.Warn("login_failed", "username", username, "err", err)
			if _, still := s.session.CurrentUser(); hadPrev && !still {
				s.teardown(ctx, prev, true)
			}
			return session.Identity{}, err
		}
		s.restoreCart(ctx, id.ID)
		s.log.Info("login", "user_id", id.ID, "role", id.Role)
		return id, nil
	})
}

// Resume rebinds the session from a stored access token and restores the
// user's cart.
func (s *Storefront) Resume(ctx context.Context, token string) (session.Identity, error) {
	id, err := s.session.Resume(ctx, token)
	if err != nil {
		return session.Identity{}, err
	}
	s.restoreCart(ctx, id.ID)
	return id, nil
}

// Logout revokes the refresh token when it can. Local state is cleared even
// when the server cannot be reached.
func (s *Storefront) Logout(ctx context.Context) {
	id, ok := s.session.CurrentUser()
	s.teardown(ctx, id, ok)
}

// teardown revokes the held refresh token and drops the identity and cart of
// id. bound reports whether id was signed in.
func (s *Storefront) teardown(ctx context.Context, id session.Identity, bound bool) {
	if rt := s.auth.takeRefresh(); rt != "" || bound {
		if err := s.api.Logout(ctx, rt); err != nil {
			s.log.Warn("logout_remote_failed", "err", err)
		}
	}
	s.session.Logout()

	s.mu.Lock()
	s.cart.Clear()
	s.mu.Unlock()

	if bound {
		if err := s.store.Delete(ctx, id.ID); err != nil {
			s.log.Warn("cart_delete_failed", "user_id", id.ID, "err", err)
		}
	}
}

func (s *Storefront) restoreCart(ctx context.Context, userID string) {
	lines, err := s.store.Load(ctx, userID)
	if err != nil {
		s.log.Warn("cart_load_failed", "user_id", userID, "err", err)
		lines = nil
	}
	s.mu.Lock()
	s.cart.Restore(lines)
	s.mu.Unlock()
}

func (s *Storefront) Users(ctx context.Context) ([]transport.User, error) {
	if err := s.session.Authorize(access.ActionViewUsers); err != nil {
		return nil, err
	}
	return s.api.Users(ctx)
}

func (s *Storefront) PaymentMethods(ctx context.Context) ([]transport.PaymentMethod, error) {
	if _, ok := s.session.CurrentUser(); !ok {
		return nil, fmt.Errorf("not logged in: %w", apperr.ErrAuth)
	}
	return s.api.PaymentMethods(ctx)
}

func (s *Storefront) CreatePaymentMethod(ctx context.Context, req transport.PaymentMethodCreate) (*transport.PaymentMethod, error) {
	if err := s.session.Authorize(access.ActionManagePaymentMethods); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return guard(&s.flights, actCreatePayment, "", func() (*transport.PaymentMethod, error) {
		return s.api.CreatePaymentMethod(ctx, req)
	})
}

func (s *Storefront) UpdatePaymentMethod(ctx context.Context, id string, req transport.PaymentMethodCreate) (*transport.PaymentMethod, error) {
	if err := s.session.Authorize(access.ActionManagePaymentMethods); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return guard(&s.flights, actUpdatePayment, id, func() (*transport.PaymentMethod, error) {
		return s.api.UpdatePaymentMethod(ctx, id, req)
	})
}

func (s *Storefront) DeletePaymentMethod(ctx context.Context, id string) error {
	if err := s.session.Authorize(access.ActionManagePaymentMethods); err != nil {
		return err
	}
	_, err := guard(&s.flights, actDeletePayment, id, func() (struct{}, error) {
		return struct{}{}, s.api.DeletePaymentMethod(ctx, id)
	})
	return err
}
