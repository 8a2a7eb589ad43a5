package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/models"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

// OrderFilter narrows ListOrders. Empty fields do not filter.
type OrderFilter struct {
	UserID  string
	Country access.Country
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Preload("Items")
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Country != "" {
		q = q.Where("country = ?", f.Country)
	}
	var orders []models.Order
	if err := q.Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// TransitionOrder locks the order, lets check veto the change and then moves
// it to status. check sees the order as stored before the update.
func (r *GormRepo) TransitionOrder(ctx context.Context, id string, status transport.OrderStatus, check func(*models.Order) error) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("id = ?", id).First(&order).Error; err != nil {
			return notFound(err)
		}
		if err := check(&order); err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error; err != nil {
			return err
		}
		order.Status = status
		return tx.Where("order_id = ?", id).Find(&order.Items).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
