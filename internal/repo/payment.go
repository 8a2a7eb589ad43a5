package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_ordering/internal/models"
)

func (r *GormRepo) ListPaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	var items []models.PaymentMethod
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetPaymentMethod(ctx context.Context, id string) (*models.PaymentMethod, error) {
	var pm models.PaymentMethod
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&pm).Error; err != nil {
		return nil, notFound(err)
	}
	return &pm, nil
}

func clearDefault(tx *gorm.DB, userID, exceptID string) error {
	q := tx.Model(&models.PaymentMethod{}).Where("user_id = ? AND is_default = ?", userID, true)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Update("is_default", false).Error
}

// CreatePaymentMethod keeps a single default per user.
func (r *GormRepo) CreatePaymentMethod(ctx context.Context, pm *models.PaymentMethod) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if pm.IsDefault {
			if err := clearDefault(tx, pm.UserID, ""); err != nil {
				return err
			}
		}
		return tx.Create(pm).Error
	})
}

// UpdatePaymentMethod loads the method, applies apply and saves it.
func (r *GormRepo) UpdatePaymentMethod(ctx context.Context, id string, apply func(*models.PaymentMethod)) (*models.PaymentMethod, error) {
	var pm models.PaymentMethod
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("id = ?", id).First(&pm).Error; err != nil {
			return notFound(err)
		}
		apply(&pm)
		if pm.IsDefault {
			if err := clearDefault(tx, pm.UserID, pm.ID); err != nil {
				return err
			}
		}
		return tx.Save(&pm).Error
	})
	if err != nil {
		return nil, err
	}
	return &pm, nil
}

func (r *GormRepo) DeletePaymentMethod(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.PaymentMethod{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
