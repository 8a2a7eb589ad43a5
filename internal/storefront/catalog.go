package storefront

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

type MenuCategory struct {
	Name  string
	Items []transport.MenuItem
}

// MenuView is a restaurant page: the restaurant and its menu, with the items
// also grouped by category in the order categories first appear.
type MenuView struct {
	Restaurant transport.Restaurant
	Items      []transport.MenuItem
	Categories []MenuCategory
}

func (s *Storefront) Restaurants(ctx context.Context) ([]transport.Restaurant, error) {
	if err := s.session.Authorize(access.ActionViewRestaurants); err != nil {
		return nil, err
	}
	return s.api.Restaurants(ctx)
}

func (s *Storefront) SearchRestaurants(ctx context.Context, q string, page, size int) (*transport.RestaurantPage, error) {
	if err := s.session.Authorize(access.ActionViewRestaurants); err != nil {
		return nil, err
	}
	return s.api.SearchRestaurants(ctx, q, page, size)
}

// LoadMenu fetches the restaurant and its menu concurrently. Either failure
// fails the whole load.
func (s *Storefront) LoadMenu(ctx context.Context, restaurantID string) (*MenuView, error) {
	if err := s.session.Authorize(access.ActionViewRestaurants); err != nil {
		return nil, err
	}

	var (
		rest  *transport.Restaurant
		items []transport.MenuItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.api.Restaurant(gctx, restaurantID)
		if err != nil {
			return err
		}
		rest = r
		return nil
	})
	g.Go(func() error {
		m, err := s.api.Menu(gctx, restaurantID)
		if err != nil {
			return err
		}
		items = m
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("load_menu_failed", "restaurant_id", restaurantID, "err", err)
		return nil, err
	}

	return &MenuView{
		Restaurant: *rest,
		Items:      items,
		Categories: groupByCategory(items),
	}, nil
}

func groupByCategory(items []transport.MenuItem) []MenuCategory {
	var out []MenuCategory
	idx := make(map[string]int)
	for _, it := range items {
		i, ok := idx[it.Category]
		if !ok {
			i = len(out)
			idx[it.Category] = i
			out = append(out, MenuCategory{Name: it.Category})
		}
		out[i].Items = append(out[i].Items, it)
	}
	return out
}
