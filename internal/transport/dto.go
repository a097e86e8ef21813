package transport

import (
	"time"

	"github.com/avdeyev/storefront/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CartRequest struct {
	ProductID string `json:"product_id"`
	SizeID    *uint  `json:"size_id"`
	Quantity  int    `json:"quantity"`
}

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CreateSizeRequest struct {
	Size  string  `json:"size"`
	Price float64 `json:"price"`
	Stock uint    `json:"stock"`
}

type UpdateSizeRequest struct {
	Size  *string  `json:"size"`
	Price *float64 `json:"price"`
	Stock *uint    `json:"stock"`
}

type ToggleResult struct {
	IsFavorite bool   `json:"isFavorite"`
	Action     string `json:"action"`
}

// ProductView is the catalog read model. Price is the arithmetic mean of
// the sizes' prices, 0 when the product has no sizes; such a product is
// not purchasable.
type ProductView struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Price       float64              `json:"price"`
	HasSizes    bool                 `json:"hasSizes"`
	Assets      []models.Asset       `json:"assets"`
	Sizes       []models.ProductSize `json:"sizes"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func NewProductView(p *models.Product) ProductView {
	view := ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		HasSizes:    len(p.Sizes) > 0,
		Assets:      p.Assets,
		Sizes:       p.Sizes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if view.Assets == nil {
		view.Assets = []models.Asset{}
	}
	if view.Sizes == nil {
		view.Sizes = []models.ProductSize{}
	}
	if len(p.Sizes) > 0 {
		var sum float64
		for _, s := range p.Sizes {
			sum += s.Price
		}
		view.Price = sum / float64(len(p.Sizes))
	}
	return view
}

func NewProductViews(products []models.Product) []ProductView {
	views := make([]ProductView, len(products))
	for i := range products {
		views[i] = NewProductView(&products[i])
	}
	return views
}
