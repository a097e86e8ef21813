package repo

import (
	"context"

	"github.com/avdeyev/storefront/internal/models"
)

// CartRow is a cart entry joined with its product and size for display.
type CartRow struct {
	ID          uint    `json:"id"`
	ProductID   string  `json:"product_id"`
	SizeID      *uint   `json:"size_id"`
	Quantity    int     `json:"quantity"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Size        *string `json:"size,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

func (r *GormRepo) GetCartItem(ctx context.Context, userID uint, productID string, sizeID *uint) (*models.CartItem, error) {
	q := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID)
	if sizeID == nil {
		q = q.Where("size_id IS NULL")
	} else {
		q = q.Where("size_id = ?", *sizeID)
	}

	var item models.CartItem
	if err := q.First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.CartItem{}, id).Error
}

// DeleteCartRow removes a row by its own id, scoped to the owner.
func (r *GormRepo) DeleteCartRow(ctx context.Context, userID, id uint) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]CartRow, error) {
	rows := make([]CartRow, 0)
	err := r.DB.WithContext(ctx).Table("cart_items").
		Select(`cart_items.id, cart_items.product_id, cart_items.size_id, cart_items.quantity,
			products.name, products.description,
			product_sizes.size AS size, COALESCE(product_sizes.price, 0) AS price,
			COALESCE((SELECT url_local FROM assets WHERE assets.product_id = products.id LIMIT 1), '') AS image_url`).
		Joins("JOIN products ON products.id = cart_items.product_id").
		Joins("LEFT JOIN product_sizes ON product_sizes.id = cart_items.size_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
