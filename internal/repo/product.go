package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/avdeyev/storefront/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Assets").
		Preload("Sizes").
		Where("id = ?", id).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Preload("Assets").
		Preload("Sizes").
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

// SearchProductsLike is the database fallback used when no search index
// is configured.
func (r *GormRepo) SearchProductsLike(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + q + "%"
	base := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("name LIKE ? OR description LIKE ?", pattern, pattern)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := base.Session(&gorm.Session{}).
		Preload("Assets").
		Preload("Sizes").
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Save(prod).Error
}

// DeleteProduct removes the product and everything it owns. The deletes
// run as separate statements; a crash in between leaves orphans, matching
// the documented reliability posture of the system.
func (r *GormRepo) DeleteProduct(ctx context.Context, id string) error {
	db := r.DB.WithContext(ctx)

	if err := db.Where("product_id = ?", id).Delete(&models.Asset{}).Error; err != nil {
		return err
	}
	if err := db.Where("product_id = ?", id).Delete(&models.ProductSize{}).Error; err != nil {
		return err
	}
	if err := db.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("product_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
		return err
	}

	res := db.Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CreateAsset(ctx context.Context, asset *models.Asset) error {
	return r.DB.WithContext(ctx).Create(asset).Error
}

func (r *GormRepo) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	var asset models.Asset
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *GormRepo) DeleteAsset(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Asset{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CreateSize(ctx context.Context, size *models.ProductSize) error {
	return r.DB.WithContext(ctx).Create(size).Error
}

func (r *GormRepo) GetSize(ctx context.Context, id uint) (*models.ProductSize, error) {
	var size models.ProductSize
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&size).Error; err != nil {
		return nil, err
	}
	return &size, nil
}

func (r *GormRepo) SaveSize(ctx context.Context, size *models.ProductSize) error {
	return r.DB.WithContext(ctx).Save(size).Error
}

func (r *GormRepo) DeleteSize(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.ProductSize{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
