package cart

import (
	"fmt"

	"github.com/Skotchmaster/food_ordering/internal/apperr"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

// OrderRequest serializes the cart into the payload accepted by POST /orders.
func (c *Cart) OrderRequest(paymentMethodID string) (transport.OrderCreate, error) {
	if len(c.lines) == 0 {
		return transport.OrderCreate{}, fmt.Errorf("cart is empty: %w", apperr.ErrValidation)
	}

	req := transport.OrderCreate{Items: make([]transport.OrderItemCreate, 0, len(c.lines))}
	for _, l := range c.lines {
		req.Items = append(req.Items, transport.OrderItemCreate{
			MenuItemID: l.ItemID,
			Quantity:   l.Quantity,
			Price:      l.UnitPrice,
		})
	}
	if paymentMethodID != "" {
		req.PaymentMethodID = &paymentMethodID
	}
	return req, nil
}

// Snapshot returns the lines in a form suitable for persisting.
func (c *Cart) Snapshot() []Line {
	return c.Lines()
}

// Restore replaces the cart contents with lines, dropping lines with a
// quantity below 1, merging repeated item ids and keeping only the first
// restaurant seen.
func (c *Cart) Restore(lines []Line) {
	c.lines = nil
	for _, l := range lines {
		if l.Quantity < 1 || l.ItemID == "" {
			continue
		}
		if len(c.lines) > 0 && c.lines[0].RestaurantID != l.RestaurantID {
			continue
		}
		if i := c.index(l.ItemID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	c.notify()
}
