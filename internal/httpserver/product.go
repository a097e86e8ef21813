package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/storefront/internal/apperr"
	"github.com/avdeyev/storefront/internal/search"
	"github.com/avdeyev/storefront/internal/service"
	"github.com/avdeyev/storefront/internal/util"
)

type CatalogHTTP struct {
	Svc    *service.CatalogService
	Search *search.Service
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.ListProducts(c.Request().Context(), offset, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	view, err := h.Svc.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return apperr.Validation("Query is required", nil)
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, items, err := h.Search.Search(c.Request().Context(), q, from, limit)
	if err != nil {
		return apperr.Internal("")
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": items})
}
