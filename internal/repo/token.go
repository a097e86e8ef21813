package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/avdeyev/storefront/internal/hash"
	"github.com/avdeyev/storefront/internal/models"
)

func (r *GormRepo) SaveToken(ctx context.Context, userID uint, token string, expiresAt time.Time) error {
	row := models.AuthToken{
		UserID:    userID,
		Token:     hash.Sha256Hex(token),
		ExpiresAt: expiresAt.Unix(),
	}
	return r.DB.WithContext(ctx).Create(&row).Error
}

// RevokeToken is idempotent: revoking an unknown or already-revoked token
// is not an error.
func (r *GormRepo) RevokeToken(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Model(&models.AuthToken{}).
		Where("token = ?", hash.Sha256Hex(token)).
		Update("revoked", true).Error
}

// IsTokenRevoked reports whether the stored record forbids the token. A
// missing row does not count as revoked; signature and expiry checks have
// already rejected anything we never issued.
func (r *GormRepo) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	var row models.AuthToken
	err := r.DB.WithContext(ctx).Where("token = ?", hash.Sha256Hex(token)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if row.Revoked {
		return true, nil
	}
	return time.Now().Unix() > row.ExpiresAt, nil
}

func (r *GormRepo) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("expires_at < ?", time.Now().Unix()).
		Delete(&models.AuthToken{})
	return res.RowsAffected, res.Error
}
