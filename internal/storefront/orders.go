package storefront

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/apperr"
	"github.com/Skotchmaster/food_ordering/internal/cart"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

// PlaceResult is a submitted order and the page to show next.
type PlaceResult struct {
	Order    *transport.Order
	Redirect string
}

func (s *Storefront) AddToCart(ctx context.Context, item transport.MenuItem, r transport.Restaurant) error {
	if err := s.session.Authorize(access.ActionAddToCart); err != nil {
		return err
	}
	if !item.IsAvailable {
		return fmt.Errorf("%s is not available: %w", item.Name, apperr.ErrValidation)
	}
	return s.mutateCart(ctx, func(c *cart.Cart) error {
		return c.AddItem(item, r)
	})
}

// UpdateQuantity sets the quantity of a line. A quantity below 1 removes it.
func (s *Storefront) UpdateQuantity(ctx context.Context, itemID string, n int) error {
	return s.mutateCart(ctx, func(c *cart.Cart) error {
		c.UpdateQuantity(itemID, n)
		return nil
	})
}

func (s *Storefront) RemoveFromCart(ctx context.Context, itemID string) error {
	return s.mutateCart(ctx, func(c *cart.Cart) error {
		c.RemoveItem(itemID)
		return nil
	})
}

func (s *Storefront) ClearCart(ctx context.Context) error {
	return s.mutateCart(ctx, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// mutateCart applies fn and persists the result for the logged-in user. The
// cart is frozen while an order submission is in flight.
func (s *Storefront) mutateCart(ctx context.Context, fn func(*cart.Cart) error) error {
	s.mu.Lock()
	if s.flights.busy(actPlaceOrder, "") {
		s.mu.Unlock()
		return fmt.Errorf("cart is being submitted: %w", ErrInFlight)
	}
	return s.applyLocked(ctx, fn)
}

// applyLocked runs fn with s.mu held and releases it before writing the store.
func (s *Storefront) applyLocked(ctx context.Context, fn func(*cart.Cart) error) error {
	if err := fn(s.cart); err != nil {
		s.mu.Unlock()
		return err
	}
	lines := s.cart.Snapshot()
	s.mu.Unlock()

	id, ok := s.session.CurrentUser()
	if !ok {
		return nil
	}
	if err := s.store.Save(ctx, id.ID, lines); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *Storefront) CartLines() []cart.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

func (s *Storefront) CartSummary() cart.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Summary()
}

func (s *Storefront) CartTotal() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.FormatTotal()
}

// CheckoutEnabled reports whether the place-order button should be live.
func (s *Storefront) CheckoutEnabled() bool {
	if !s.session.Can(access.ActionPlaceOrder) {
		return false
	}
	s.mu.Lock()
	empty := s.cart.IsEmpty()
	s.mu.Unlock()
	return !empty && !s.flights.busy(actPlaceOrder, "")
}

// PlaceOrder submits the cart. The cart is cleared only when the server
// accepted the order.
func (s *Storefront) PlaceOrder(ctx context.Context, paymentMethodID string) (*PlaceResult, error) {
	if err := s.session.Authorize(access.ActionPlaceOrder); err != nil {
		return nil, err
	}

	return guard(&s.flights, actPlaceOrder, "", func() (*PlaceResult, error) {
		s.mu.Lock()
		req, err := s.cart.OrderRequest(paymentMethodID)
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}

		order, err := s.api.CreateOrder(ctx, req)
		if err != nil {
			s.log.Warn("place_order_failed", "err", err)
			return nil, err
		}

		s.mu.Lock()
		err = s.applyLocked(ctx, func(c *cart.Cart) error {
			c.Clear()
			return nil
		})
		if err != nil {
			s.log.Warn("cart_clear_failed", "err", err)
		}
		s.log.Info("order_placed", "order_id", order.ID, "total", order.TotalAmount.StringFixed(2))
		return &PlaceResult{Order: order, Redirect: PathOrders}, nil
	})
}

func (s *Storefront) Orders(ctx context.Context) ([]transport.Order, error) {
	if _, ok := s.session.CurrentUser(); !ok {
		return nil, fmt.Errorf("not logged in: %w", apperr.ErrAuth)
	}
	return s.api.Orders(ctx)
}

func (s *Storefront) CheckoutOrder(ctx context.Context, id string) (*transport.Order, error) {
	if err := s.session.Authorize(access.ActionPlaceOrder); err != nil {
		return nil, err
	}
	return guard(&s.flights, actCheckout, id, func() (*transport.Order, error) {
		return s.api.CheckoutOrder(ctx, id)
	})
}

func (s *Storefront) CancelOrder(ctx context.Context, id string) (*transport.Order, error) {
	if err := s.session.Authorize(access.ActionCancelOrder); err != nil {
		return nil, err
	}
	return guard(&s.flights, actCancel, id, func() (*transport.Order, error) {
		return s.api.CancelOrder(ctx, id)
	})
}
