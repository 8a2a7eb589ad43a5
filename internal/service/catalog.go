package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/apperr"
	"github.com/Skotchmaster/food_ordering/internal/models"
	"github.com/Skotchmaster/food_ordering/internal/repo"
	"github.com/Skotchmaster/food_ordering/internal/util"
	"github.com/Skotchmaster/food_ordering/pkg/logging"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

// Searcher finds restaurants by free text. country restricts the hits when
// it is not empty.
type Searcher interface {
	SearchRestaurants(ctx context.Context, query string, country access.Country, from, size int) (int64, []transport.Restaurant, error)
}

// DBSearch is the Searcher used when no search index is configured.
type DBSearch struct {
	Repo *repo.GormRepo
}

func (s DBSearch) SearchRestaurants(ctx context.Context, query string, country access.Country, from, size int) (int64, []transport.Restaurant, error) {
	total, items, err := s.Repo.SearchRestaurants(ctx, query, country, from, size)
	if err != nil {
		return 0, nil, err
	}
	out := make([]transport.Restaurant, len(items))
	for i, it := range items {
		out[i] = it.DTO()
	}
	return total, out, nil
}

type CatalogService struct {
	Repo     *repo.GormRepo
	Searcher Searcher
}

func (s *CatalogService) ListRestaurants(ctx context.Context, v Viewer) ([]models.Restaurant, error) {
	if err := v.require(access.ActionViewRestaurants); err != nil {
		return nil, err
	}
	return s.Repo.ListRestaurants(ctx, v.countryFilter())
}

func (s *CatalogService) GetRestaurant(ctx context.Context, v Viewer, id string) (*models.Restaurant, error) {
	if err := v.require(access.ActionViewRestaurants); err != nil {
		return nil, err
	}
	rest, err := s.Repo.GetRestaurant(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("restaurant not found: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	if !access.CanAccessCountry(v.Role, v.Country, rest.Country) {
		return nil, fmt.Errorf("access denied to this restaurant: %w", apperr.ErrForbidden)
	}
	return rest, nil
}

func (s *CatalogService) Menu(ctx context.Context, v Viewer, restaurantID string) ([]models.MenuItem, error) {
	if _, err := s.GetRestaurant(ctx, v, restaurantID); err != nil {
		return nil, err
	}
	return s.Repo.GetMenu(ctx, restaurantID)
}

// Search pages through restaurants matching query. Non-admins only ever see
// their own country.
func (s *CatalogService) Search(ctx context.Context, v Viewer, query string, page, size int) (*transport.RestaurantPage, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")

	if err := v.require(access.ActionViewRestaurants); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query required: %w", apperr.ErrValidation)
	}

	page, size, offset, limit := util.Calculate(page, size)

	searcher := s.Searcher
	if searcher == nil {
		searcher = DBSearch{Repo: s.Repo}
	}
	total, items, err := searcher.SearchRestaurants(ctx, query, v.countryFilter(), offset, limit)
	if err != nil {
		l.Error("search_failed", "query", query, "error", err)
		return nil, err
	}
	if items == nil {
		items = []transport.Restaurant{}
	}

	return &transport.RestaurantPage{
		Data: items,
		Meta: transport.NewPageMeta(page, offset, limit, total),
	}, nil
}
