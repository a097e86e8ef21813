package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avdeyev/storefront/internal/apperr"
	"github.com/avdeyev/storefront/internal/events"
	"github.com/avdeyev/storefront/internal/logging"
	"github.com/avdeyev/storefront/internal/models"
	"github.com/avdeyev/storefront/internal/repo"
	"github.com/avdeyev/storefront/internal/search"
	"github.com/avdeyev/storefront/internal/transport"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
	Search   *search.Service
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) (int64, []transport.ProductView, error) {
	total, items, err := s.Repo.GetProducts(ctx, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("list_products_error", "error", err)
		return 0, nil, apperr.Internal("")
	}
	return total, transport.NewProductViews(items), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*transport.ProductView, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Product not found")
		}
		logging.FromContext(ctx).Error("get_product_error", "error", err)
		return nil, apperr.Internal("")
	}
	view := transport.NewProductView(product)
	return &view, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*transport.ProductView, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("Validation failed", map[string]string{"name": "name is required"})
	}

	product := models.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := s.Repo.CreateProduct(ctx, &product); err != nil {
		l.Error("create_product_error", "status", 500, "error", err)
		return nil, apperr.Internal("")
	}

	view := transport.NewProductView(&product)
	s.reindex(ctx, view)
	s.publish(ctx, product.ID, map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"name":       product.Name,
	})
	return &view, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req transport.UpdateProductRequest) (*transport.ProductView, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update_product")

	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Product not found")
		}
		l.Error("update_product_error", "status", 500, "error", err)
		return nil, apperr.Internal("")
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperr.Validation("Validation failed", map[string]string{"name": "name cannot be empty"})
		}
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		l.Error("update_product_error", "status", 500, "error", err)
		return nil, apperr.Internal("")
	}

	view := transport.NewProductView(product)
	s.reindex(ctx, view)
	s.publish(ctx, product.ID, map[string]any{
		"type":       "product_updated",
		"product_id": product.ID,
		"name":       product.Name,
	})
	return &view, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_product")

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Product not found")
		}
		l.Error("delete_product_error", "status", 500, "error", err)
		return apperr.Internal("")
	}

	if err := s.Search.DeleteProduct(ctx, id); err != nil {
		l.Warn("search_delete_error", "product_id", id, "error", err)
	}
	s.publish(ctx, id, map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})
	return nil
}

func (s *CatalogService) AddSize(ctx context.Context, productID string, req transport.CreateSizeRequest) (*models.ProductSize, error) {
	if strings.TrimSpace(req.Size) == "" || req.Price < 0 {
		return nil, apperr.Validation("Validation failed", map[string]string{
			"size":  "size label is required",
			"price": "price cannot be negative",
		})
	}

	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, apperr.Internal("")
	}

	size := models.ProductSize{
		ProductID: productID,
		Size:      strings.TrimSpace(req.Size),
		Price:     req.Price,
		Stock:     req.Stock,
	}
	if err := s.Repo.CreateSize(ctx, &size); err != nil {
		logging.FromContext(ctx).Error("add_size_error", "error", err)
		return nil, apperr.Internal("")
	}

	s.reindexProduct(ctx, productID)
	return &size, nil
}

func (s *CatalogService) UpdateSize(ctx context.Context, id uint, req transport.UpdateSizeRequest) (*models.ProductSize, error) {
	size, err := s.Repo.GetSize(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Size not found")
		}
		return nil, apperr.Internal("")
	}

	if req.Size != nil {
		size.Size = strings.TrimSpace(*req.Size)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperr.Validation("Validation failed", map[string]string{"price": "price cannot be negative"})
		}
		size.Price = *req.Price
	}
	if req.Stock != nil {
		size.Stock = *req.Stock
	}

	if err := s.Repo.SaveSize(ctx, size); err != nil {
		logging.FromContext(ctx).Error("update_size_error", "error", err)
		return nil, apperr.Internal("")
	}

	s.reindexProduct(ctx, size.ProductID)
	return size, nil
}

func (s *CatalogService) DeleteSize(ctx context.Context, id uint) error {
	size, err := s.Repo.GetSize(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Size not found")
		}
		return apperr.Internal("")
	}

	if err := s.Repo.DeleteSize(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Size not found")
		}
		logging.FromContext(ctx).Error("delete_size_error", "error", err)
		return apperr.Internal("")
	}

	s.reindexProduct(ctx, size.ProductID)
	return nil
}

func (s *CatalogService) AddAsset(ctx context.Context, productID, url, urlLocal string) (*models.Asset, error) {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, apperr.Internal("")
	}

	asset := models.Asset{
		ID:        uuid.NewString(),
		URL:       url,
		URLLocal:  urlLocal,
		ProductID: productID,
	}
	if err := s.Repo.CreateAsset(ctx, &asset); err != nil {
		logging.FromContext(ctx).Error("add_asset_error", "error", err)
		return nil, apperr.Internal("")
	}
	return &asset, nil
}

func (s *CatalogService) DeleteAsset(ctx context.Context, id string) error {
	if err := s.Repo.DeleteAsset(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Asset not found")
		}
		logging.FromContext(ctx).Error("delete_asset_error", "error", err)
		return apperr.Internal("")
	}
	return nil
}

// reindexProduct refreshes the search document after a size change moved
// the derived price.
func (s *CatalogService) reindexProduct(ctx context.Context, productID string) {
	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return
	}
	s.reindex(ctx, transport.NewProductView(product))
}

func (s *CatalogService) reindex(ctx context.Context, view transport.ProductView) {
	if err := s.Search.IndexProduct(ctx, view); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "product_id", view.ID, "error", err)
	}
}

func (s *CatalogService) publish(ctx context.Context, key string, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, events.TopicProductEvents, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_error", "topic", events.TopicProductEvents, "error", err)
	}
}
