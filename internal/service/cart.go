package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/avdeyev/storefront/internal/apperr"
	"github.com/avdeyev/storefront/internal/logging"
	"github.com/avdeyev/storefront/internal/models"
	"github.com/avdeyev/storefront/internal/repo"
	"github.com/avdeyev/storefront/internal/transport"
)

// maxCartDelta bounds a single quantity change to a sane range.
const maxCartDelta = 100

type CartService struct {
	Repo *repo.GormRepo
}

// ApplyDelta reconciles a signed quantity change against the row keyed by
// (user, product, size). Absent row: insert when delta>0, no-op
// otherwise. Present row: add the delta; a non-positive result deletes
// the row instead of storing a zero or negative quantity. "Set to N" is a
// client-computed delta, which makes it best-effort under concurrency;
// the read and the write are deliberately not wrapped in a transaction.
func (s *CartService) ApplyDelta(ctx context.Context, userID uint, req transport.CartRequest) error {
	l := logging.FromContext(ctx).With("svc", "cart.apply_delta", "user_id", userID)

	if req.Quantity == 0 || req.Quantity < -maxCartDelta || req.Quantity > maxCartDelta {
		return apperr.Validation("Quantity change out of range", map[string]string{
			"quantity": "must be a non-zero value between -100 and 100",
		})
	}

	product, err := s.Repo.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Product does not exist")
		}
		l.Error("cart_error", "status", 500, "error", err)
		return apperr.Internal("")
	}

	// A product without sizes has no price and cannot be purchased.
	// Negative deltas still go through so stale rows can be drained.
	if req.Quantity > 0 && len(product.Sizes) == 0 {
		return apperr.Validation("Product is not purchasable", nil)
	}

	if req.SizeID != nil {
		size, err := s.Repo.GetSize(ctx, *req.SizeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Size does not exist")
			}
			l.Error("cart_error", "status", 500, "error", err)
			return apperr.Internal("")
		}
		if size.ProductID != product.ID {
			return apperr.Validation("Size does not belong to product", nil)
		}
	}

	item, err := s.Repo.GetCartItem(ctx, userID, req.ProductID, req.SizeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("cart_error", "status", 500, "error", err)
			return apperr.Internal("")
		}
		if req.Quantity <= 0 {
			return nil
		}
		newItem := models.CartItem{
			UserID:    userID,
			ProductID: req.ProductID,
			SizeID:    req.SizeID,
			Quantity:  req.Quantity,
		}
		if err := s.Repo.CreateCartItem(ctx, &newItem); err != nil {
			l.Error("cart_error", "status", 500, "error", err)
			return apperr.Internal("")
		}
		return nil
	}

	newQuantity := item.Quantity + req.Quantity
	if newQuantity <= 0 {
		if err := s.Repo.DeleteCartItem(ctx, item.ID); err != nil {
			l.Error("cart_error", "status", 500, "error", err)
			return apperr.Internal("")
		}
		return nil
	}

	item.Quantity = newQuantity
	if err := s.Repo.SaveCartItem(ctx, item); err != nil {
		l.Error("cart_error", "status", 500, "error", err)
		return apperr.Internal("")
	}
	return nil
}

func (s *CartService) List(ctx context.Context, userID uint) ([]repo.CartRow, error) {
	rows, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("cart_list_error", "user_id", userID, "error", err)
		return nil, apperr.Internal("")
	}
	return rows, nil
}

// RemoveRow deletes a cart row by its own id; rows belonging to other
// users are invisible to the caller.
func (s *CartService) RemoveRow(ctx context.Context, userID, id uint) error {
	affected, err := s.Repo.DeleteCartRow(ctx, userID, id)
	if err != nil {
		logging.FromContext(ctx).Error("cart_remove_error", "user_id", userID, "error", err)
		return apperr.Internal("")
	}
	if affected == 0 {
		return apperr.NotFound("Cart item not found")
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("cart_clear_error", "user_id", userID, "error", err)
		return apperr.Internal("")
	}
	return nil
}
