package transport

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/apperr"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type OrderItemCreate struct {
	MenuItemID string          `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

type OrderCreate struct {
	Items           []OrderItemCreate `json:"items"`
	PaymentMethodID *string           `json:"payment_method_id"`
}

func (o OrderCreate) Validate() error {
	if len(o.Items) == 0 {
		return fmt.Errorf("items required: %w", apperr.ErrValidation)
	}
	for i, it := range o.Items {
		if it.MenuItemID == "" {
			return fmt.Errorf("items[%d]: menu_item_id required: %w", i, apperr.ErrValidation)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("items[%d]: quantity must be > 0: %w", i, apperr.ErrValidation)
		}
		if it.Price.IsNegative() {
			return fmt.Errorf("items[%d]: price must be >= 0: %w", i, apperr.ErrValidation)
		}
	}
	if o.PaymentMethodID != nil && *o.PaymentMethodID == "" {
		return fmt.Errorf("payment_method_id must not be empty: %w", apperr.ErrValidation)
	}
	return nil
}

type OrderItem struct {
	ID           string          `json:"id"`
	MenuItemID   string          `json:"menu_item_id"`
	MenuItemName string          `json:"menu_item_name"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	UserName        string          `json:"user_name"`
	RestaurantID    string          `json:"restaurant_id"`
	OrderDate       time.Time       `json:"order_date"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	PaymentMethodID *string         `json:"payment_method_id"`
	Country         access.Country  `json:"country"`
	Items           []OrderItem     `json:"items"`
}

func (o Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("order: id required: %w", apperr.ErrValidation)
	}
	switch o.Status {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
	default:
		return fmt.Errorf("order %s: unknown status %q: %w", o.ID, o.Status, apperr.ErrValidation)
	}
	return nil
}

// FormatTotal renders the total in the order's currency.
func (o Order) FormatTotal() string {
	return o.Country.CurrencySymbol() + o.TotalAmount.StringFixed(2)
}
