package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_ordering/internal/models"
	"github.com/Skotchmaster/food_ordering/pkg/tokens"
)

func (r *GormRepo) AddRefreshToken(ctx context.Context, userID, jti, rawToken string, expiresAt time.Time) error {
	return r.DB.WithContext(ctx).Create(&models.RefreshToken{
		UserID:    userID,
		Token:     tokens.Sha256Hex(rawToken),
		JTI:       jti,
		ExpiresAt: expiresAt.Unix(),
	}).Error
}

func (r *GormRepo) FindRefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, notFound(err)
	}
	return &token, nil
}

func refreshUsable(tx *gorm.DB, jti string) error {
	var refresh models.RefreshToken
	if err := lockForUpdate(tx).Where("jti = ?", jti).First(&refresh).Error; err != nil {
		return notFound(err)
	}
	if refresh.Revoked || refresh.ExpiresAt < time.Now().Unix() {
		return ErrTokenRevoked
	}
	return nil
}

// RotateRefreshToken revokes oldJTI and stores next in one transaction, so a
// refresh token can be spent only once.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, next models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := refreshUsable(tx, oldJTI); err != nil {
			return err
		}
		if err := tx.Model(&models.RefreshToken{}).
			Where("jti = ?", oldJTI).
			Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Create(&next).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, rawToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", tokens.Sha256Hex(rawToken)).
		Update("revoked", true).Error
}
