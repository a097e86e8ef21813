package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/storefront/internal/apperr"
	authmw "github.com/avdeyev/storefront/internal/middleware/auth"
	"github.com/avdeyev/storefront/internal/service"
)

type FavoritesHTTP struct {
	Svc *service.FavoritesService
}

func (h *FavoritesHTTP) GetFavorites(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	rows, err := h.Svc.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *FavoritesHTTP) Toggle(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	productID := c.Param("id")
	if productID == "" {
		return apperr.Validation("Product id is required", nil)
	}

	result, err := h.Svc.Toggle(c.Request().Context(), userID, productID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Check keeps the original API's query parameter name.
func (h *FavoritesHTTP) Check(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	productID := c.QueryParam("assetId")
	if productID == "" {
		return apperr.Validation("assetId is required", nil)
	}

	isFav, err := h.Svc.Check(c.Request().Context(), userID, productID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"isFavorite": isFav})
}
