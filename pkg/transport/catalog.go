package transport

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/apperr"
)

type Restaurant struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Location    string         `json:"location"`
	Country     access.Country `json:"country"`
	CuisineType string         `json:"cuisine_type"`
	ImageURL    string         `json:"image_url,omitempty"`
	Rating      float64        `json:"rating"`
}

func (r Restaurant) Validate() error {
	if r.ID == "" || r.Name == "" {
		return fmt.Errorf("restaurant: id and name required: %w", apperr.ErrValidation)
	}
	if _, err := access.ParseCountry(string(r.Country)); err != nil {
		return fmt.Errorf("restaurant %s: %w", r.ID, err)
	}
	return nil
}

type MenuItem struct {
	ID           string          `json:"id"`
	RestaurantID string          `json:"restaurant_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	ImageURL     string          `json:"image_url,omitempty"`
	IsAvailable  bool            `json:"is_available"`
}

func (m MenuItem) Validate() error {
	if m.ID == "" || m.RestaurantID == "" {
		return fmt.Errorf("menu item: id and restaurant_id required: %w", apperr.ErrValidation)
	}
	if m.Price.IsNegative() {
		return fmt.Errorf("menu item %s: negative price: %w", m.ID, apperr.ErrValidation)
	}
	return nil
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

func NewPageMeta(page, offset, limit int, total int64) PageMeta {
	return PageMeta{
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		HasPrev:    page > 1,
		HasNext:    int64(offset+limit) < total,
	}
}

type RestaurantPage struct {
	Data []Restaurant `json:"data"`
	Meta PageMeta     `json:"meta"`
}
