package cart

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/apperr"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

type Line struct {
	ItemID            string          `json:"item_id"`
	Name              string          `json:"name"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Quantity          int             `json:"quantity"`
	Category          string          `json:"category"`
	ImageURL          string          `json:"image_url,omitempty"`
	RestaurantID      string          `json:"restaurant_id"`
	RestaurantName    string          `json:"restaurant_name"`
	RestaurantCountry access.Country  `json:"restaurant_country"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Summary is what observers receive after every mutation.
type Summary struct {
	Lines int
	Items int
	Total decimal.Decimal
}

// Cart keeps at most one line per menu item, in insertion order. All lines
// belong to the same restaurant. A Cart is not safe for concurrent use.
type Cart struct {
	lines     []Line
	observers map[int]func(Summary)
	nextObs   int
}

func New() *Cart {
	return &Cart{observers: make(map[int]func(Summary))}
}

// AddItem appends item with quantity 1, or bumps the quantity of its existing
// line. Price and category are copied, later menu changes do not reach the cart.
func (c *Cart) AddItem(item transport.MenuItem, r transport.Restaurant) error {
	if item.ID == "" {
		return fmt.Errorf("menu item id required: %w", apperr.ErrValidation)
	}
	if len(c.lines) > 0 && c.lines[0].RestaurantID != r.ID {
		return fmt.Errorf("cart holds items from %s, clear it before ordering from %s: %w",
			c.lines[0].RestaurantName, r.Name, apperr.ErrValidation)
	}

	if i := c.index(item.ID); i >= 0 {
		c.lines[i].Quantity++
	} else {
		c.lines = append(c.lines, Line{
			ItemID:            item.ID,
			Name:              item.Name,
			UnitPrice:         item.Price,
			Quantity:          1,
			Category:          item.Category,
			ImageURL:          item.ImageURL,
			RestaurantID:      r.ID,
			RestaurantName:    r.Name,
			RestaurantCountry: r.Country,
		})
	}
	c.notify()
	return nil
}

// UpdateQuantity sets the quantity of a line; n <= 0 removes it.
func (c *Cart) UpdateQuantity(itemID string, n int) {
	if n <= 0 {
		c.RemoveItem(itemID)
		return
	}
	i := c.index(itemID)
	if i < 0 {
		return
	}
	c.lines[i].Quantity = n
	c.notify()
}

func (c *Cart) RemoveItem(itemID string) {
	i := c.index(itemID)
	if i < 0 {
		return
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	c.notify()
}

func (c *Cart) Clear() {
	c.lines = nil
	c.notify()
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Lines() []Line {
	return slices.Clone(c.lines)
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c *Cart) RestaurantID() string {
	if len(c.lines) == 0 {
		return ""
	}
	return c.lines[0].RestaurantID
}

func (c *Cart) CurrencySymbol() string {
	if len(c.lines) == 0 {
		return access.CountryAmerica.CurrencySymbol()
	}
	return c.lines[0].RestaurantCountry.CurrencySymbol()
}

func (c *Cart) FormatTotal() string {
	return c.CurrencySymbol() + c.Total().StringFixed(2)
}

func (c *Cart) Summary() Summary {
	return Summary{Lines: len(c.lines), Items: c.ItemCount(), Total: c.Total()}
}

// Subscribe registers fn to be called synchronously after each mutation.
func (c *Cart) Subscribe(fn func(Summary)) (unsubscribe func()) {
	if c.observers == nil {
		c.observers = make(map[int]func(Summary))
	}
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	return func() { delete(c.observers, id) }
}

func (c *Cart) notify() {
	if len(c.observers) == 0 {
		return
	}
	s := c.Summary()
	ids := make([]int, 0, len(c.observers))
	for id := range c.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := c.observers[id]; ok {
			fn(s)
		}
	}
}

func (c *Cart) index(itemID string) int {
	return slices.IndexFunc(c.lines, func(l Line) bool { return l.ItemID == itemID })
}
