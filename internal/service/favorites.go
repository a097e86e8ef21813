package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/avdeyev/storefront/internal/apperr"
	"github.com/avdeyev/storefront/internal/logging"
	"github.com/avdeyev/storefront/internal/repo"
	"github.com/avdeyev/storefront/internal/transport"
)

type FavoritesService struct {
	Repo *repo.GormRepo
}

// Toggle flips membership: present removes, absent adds. Callers cannot
// request a target state. A duplicate insert losing a race with another
// toggle resolves to "already a favorite", never an error.
func (s *FavoritesService) Toggle(ctx context.Context, userID uint, productID string) (*transport.ToggleResult, error) {
	l := logging.FromContext(ctx).With("svc", "favorites.toggle", "user_id", userID)

	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Product does not exist")
		}
		l.Error("favorites_error", "status", 500, "error", err)
		return nil, apperr.Internal("")
	}

	isFav, err := s.Repo.IsFavorite(ctx, userID, productID)
	if err != nil {
		l.Error("favorites_error", "status", 500, "error", err)
		return nil, apperr.Internal("")
	}

	if isFav {
		if _, err := s.Repo.RemoveFavorite(ctx, userID, productID); err != nil {
			l.Error("favorites_error", "status", 500, "error", err)
			return nil, apperr.Internal("")
		}
		return &transport.ToggleResult{IsFavorite: false, Action: "removed"}, nil
	}

	if err := s.Repo.AddFavorite(ctx, userID, productID); err != nil {
		if errors.Is(err, repo.ErrDuplicateFavorite) {
			return &transport.ToggleResult{IsFavorite: true, Action: "added"}, nil
		}
		l.Error("favorites_error", "status", 500, "error", err)
		return nil, apperr.Internal("")
	}
	return &transport.ToggleResult{IsFavorite: true, Action: "added"}, nil
}

func (s *FavoritesService) List(ctx context.Context, userID uint) ([]repo.FavoriteRow, error) {
	rows, err := s.Repo.GetFavorites(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("favorites_list_error", "user_id", userID, "error", err)
		return nil, apperr.Internal("")
	}
	return rows, nil
}

func (s *FavoritesService) Check(ctx context.Context, userID uint, productID string) (bool, error) {
	isFav, err := s.Repo.IsFavorite(ctx, userID, productID)
	if err != nil {
		logging.FromContext(ctx).Error("favorites_check_error", "user_id", userID, "error", err)
		return false, apperr.Internal("")
	}
	return isFav, nil
}
