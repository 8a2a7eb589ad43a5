package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/models"
)

// ListRestaurants returns every restaurant, or only those in country when it
// is set.
func (r *GormRepo) ListRestaurants(ctx context.Context, country access.Country) ([]models.Restaurant, error) {
	q := r.DB.WithContext(ctx).Model(&models.Restaurant{})
	if country != "" {
		q = q.Where("country = ?", country)
	}
	var items []models.Restaurant
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rest).Error; err != nil {
		return nil, notFound(err)
	}
	return &rest, nil
}

func (r *GormRepo) RestaurantsByIDs(ctx context.Context, ids []string) ([]models.Restaurant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Restaurant
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetMenu(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.DB.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("category ASC, name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) MenuItemsByIDs(ctx context.Context, ids []string) (map[string]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.MenuItem, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

// SearchRestaurants is the database fallback used when no search index is
// configured. It matches name, cuisine and location case-insensitively.
func (r *GormRepo) SearchRestaurants(ctx context.Context, query string, country access.Country, offset, limit int) (int64, []models.Restaurant, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	base := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&models.Restaurant{}).
			Where("(LOWER(name) LIKE ? OR LOWER(cuisine_type) LIKE ? OR LOWER(location) LIKE ?)", pattern, pattern, pattern)
		if country != "" {
			q = q.Where("country = ?", country)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Restaurant
	if err := base().Order("rating DESC, name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// CreateRestaurant stores r together with its MenuItems.
func (r *GormRepo) CreateRestaurant(ctx context.Context, rest *models.Restaurant) error {
	return r.DB.WithContext(ctx).Create(rest).Error
}

func (r *GormRepo) CountRestaurants(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Restaurant{}).Count(&n).Error
	return n, err
}
