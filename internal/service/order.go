package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/apperr"
	"github.com/Skotchmaster/food_ordering/internal/models"
	"github.com/Skotchmaster/food_ordering/internal/repo"
	"github.com/Skotchmaster/food_ordering/pkg/logging"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events Publisher
}

// CreateOrder prices the items from the menu, not from the request, and
// stores a PENDING order in the restaurant's country.
func (s *OrderService) CreateOrder(ctx context.Context, v Viewer, req transport.OrderCreate) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create", "user_id", v.UserID)

	if err := v.require(access.ActionPlaceOrder); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.MenuItemID)
	}
	menu, err := s.Repo.MenuItemsByIDs(ctx, ids)
	if err != nil {
		l.Error("create_order_failed", "reason", "menu lookup", "error", err)
		return nil, err
	}

	var restaurantID string
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		mi, ok := menu[it.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("menu item %s not found: %w", it.MenuItemID, apperr.ErrNotFound)
		}
		if !mi.IsAvailable {
			return nil, fmt.Errorf("%s is not available: %w", mi.Name, apperr.ErrValidation)
		}
		if restaurantID == "" {
			restaurantID = mi.RestaurantID
		} else if mi.RestaurantID != restaurantID {
			return nil, fmt.Errorf("all items must come from one restaurant: %w", apperr.ErrValidation)
		}
		total = total.Add(mi.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		items = append(items, models.OrderItem{
			MenuItemID:   mi.ID,
			MenuItemName: mi.Name,
			Quantity:     it.Quantity,
			Price:        mi.Price,
		})
	}

	rest, err := s.Repo.GetRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("restaurant not found: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	if !access.CanAccessCountry(v.Role, v.Country, rest.Country) {
		return nil, fmt.Errorf("cannot order from restaurants outside your country: %w", apperr.ErrForbidden)
	}

	if req.PaymentMethodID != nil {
		pm, err := s.Repo.GetPaymentMethod(ctx, *req.PaymentMethodID)
		if err != nil || pm.UserID != v.UserID {
			if err != nil && !errors.Is(err, repo.ErrNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("unknown payment method: %w", apperr.ErrValidation)
		}
	}

	order := models.Order{
		UserID:          v.UserID,
		UserName:        v.Username,
		RestaurantID:    rest.ID,
		OrderDate:       time.Now().UTC(),
		TotalAmount:     total.Round(2),
		Status:          transport.OrderStatusPending,
		PaymentMethodID: req.PaymentMethodID,
		Country:         rest.Country,
		Items:           items,
	}
	if err := s.Repo.CreateOrder(ctx, &order); err != nil {
		l.Error("create_order_failed", "reason", "insert", "error", err)
		return nil, err
	}

	l.Info("order_created", "order_id", order.ID, "total", order.TotalAmount.StringFixed(2))
	publish(ctx, s.Events, l, TopicOrderEvents, Event{
		Type:   "order_created",
		ID:     order.ID,
		UserID: v.UserID,
		Data:   map[string]any{"total_amount": order.TotalAmount, "country": order.Country, "restaurant_id": order.RestaurantID},
	})
	return &order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, v Viewer) ([]models.Order, error) {
	if v.UserID == "" {
		return nil, fmt.Errorf("not authenticated: %w", apperr.ErrAuth)
	}
	var f repo.OrderFilter
	switch access.OrderScopeFor(v.Role) {
	case access.ScopeCountry:
		f.Country = v.Country
	case access.ScopeOwn:
		f.UserID = v.UserID
	}
	return s.Repo.ListOrders(ctx, f)
}

func (s *OrderService) GetOrder(ctx context.Context, v Viewer, id string) (*models.Order, error) {
	if v.UserID == "" {
		return nil, fmt.Errorf("not authenticated: %w", apperr.ErrAuth)
	}
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("order not found: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	if err := canSeeOrder(v, order); err != nil {
		return nil, err
	}
	return order, nil
}

func canSeeOrder(v Viewer, o *models.Order) error {
	switch access.OrderScopeFor(v.Role) {
	case access.ScopeCountry:
		if o.Country != v.Country {
			return fmt.Errorf("access denied to this order: %w", apperr.ErrForbidden)
		}
	case access.ScopeOwn:
		if o.UserID != v.UserID {
			return fmt.Errorf("access denied to this order: %w", apperr.ErrForbidden)
		}
	}
	return nil
}

// Checkout completes a PENDING order.
func (s *OrderService) Checkout(ctx context.Context, v Viewer, id string) (*models.Order, error) {
	return s.transition(ctx, v, id, access.ActionPlaceOrder, transport.OrderStatusCompleted, "order_completed")
}

// Cancel cancels a PENDING order. Completed and cancelled orders stay as
// they are, the same as the orders page, which only offers cancel on
// pending orders.
func (s *OrderService) Cancel(ctx context.Context, v Viewer, id string) (*models.Order, error) {
	return s.transition(ctx, v, id, access.ActionCancelOrder, transport.OrderStatusCancelled, "order_cancelled")
}

func (s *OrderService) transition(ctx context.Context, v Viewer, id string, a access.Action, to transport.OrderStatus, event string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order."+event, "user_id", v.UserID, "order_id", id)

	if err := v.require(a); err != nil {
		return nil, err
	}

	order, err := s.Repo.TransitionOrder(ctx, id, to, func(o *models.Order) error {
		if !access.CanAccessCountry(v.Role, v.Country, o.Country) {
			return fmt.Errorf("cannot change orders from other countries: %w", apperr.ErrForbidden)
		}
		switch o.Status {
		case transport.OrderStatusPending:
			return nil
		case transport.OrderStatusCancelled:
			return fmt.Errorf("order is already cancelled: %w", apperr.ErrValidation)
		default:
			return fmt.Errorf("order is already completed: %w", apperr.ErrValidation)
		}
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("order not found: %w", apperr.ErrNotFound)
		}
		if !errors.Is(err, apperr.ErrForbidden) && !errors.Is(err, apperr.ErrValidation) {
			l.Error("order_transition_failed", "error", err)
		}
		return nil, err
	}

	l.Info("order_transitioned", "status", to)
	publish(ctx, s.Events, l, TopicOrderEvents, Event{Type: event, ID: order.ID, UserID: order.UserID})
	return order, nil
}
