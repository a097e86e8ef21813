package repo

import (
	"context"
	"time"

	"github.com/avdeyev/storefront/internal/models"
)

// FavoriteRow is a favorite joined with its product for display.
type FavoriteRow struct {
	ID        uint      `json:"id"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *GormRepo) IsFavorite(ctx context.Context, userID uint, productID string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddFavorite returns ErrDuplicateFavorite when the unique constraint
// fires, so a concurrent duplicate toggle resolves to "already a
// favorite" instead of an error.
func (r *GormRepo) AddFavorite(ctx context.Context, userID uint, productID string) error {
	fav := models.Favorite{UserID: userID, ProductID: productID}
	if err := r.DB.WithContext(ctx).Create(&fav).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateFavorite
		}
		return err
	}
	return nil
}

func (r *GormRepo) RemoveFavorite(ctx context.Context, userID uint, productID string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) GetFavorites(ctx context.Context, userID uint) ([]FavoriteRow, error) {
	rows := make([]FavoriteRow, 0)
	err := r.DB.WithContext(ctx).Table("favorites").
		Select(`favorites.id, favorites.product_id, favorites.created_at,
			products.name,
			COALESCE((SELECT AVG(price) FROM product_sizes WHERE product_sizes.product_id = products.id), 0) AS price,
			COALESCE((SELECT url_local FROM assets WHERE assets.product_id = products.id LIMIT 1), '') AS image_url`).
		Joins("JOIN products ON products.id = favorites.product_id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
