package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avdeyev/storefront/internal/models"
	"github.com/avdeyev/storefront/internal/repo"
	"github.com/avdeyev/storefront/internal/search"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	return repo.New(db)
}

func newAuthService(r *repo.GormRepo) *AuthService {
	return &AuthService{
		Repo:     r,
		Secret:   []byte("test_secret"),
		TokenTTL: 7 * 24 * time.Hour,
	}
}

func newCatalogService(r *repo.GormRepo) *CatalogService {
	return &CatalogService{
		Repo:   r,
		Search: search.NewService(nil, "products", r),
	}
}

// seedProduct creates a product with one size per given price.
func seedProduct(t *testing.T, r *repo.GormRepo, prices ...float64) *models.Product {
	t.Helper()

	product := models.Product{
		ID:          uuid.NewString(),
		Name:        "test product",
		Description: "seeded for tests",
	}
	require.NoError(t, r.CreateProduct(context.Background(), &product))

	for i, price := range prices {
		size := models.ProductSize{
			ProductID: product.ID,
			Size:      []string{"S", "M", "L", "XL"}[i%4],
			Price:     price,
			Stock:     10,
		}
		require.NoError(t, r.CreateSize(context.Background(), &size))
	}
	return &product
}

func seedUser(t *testing.T, svc *AuthService, email string) *models.User {
	t.Helper()

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)
	return user
}
