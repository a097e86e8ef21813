package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/storefront/internal/apperr"
	authmw "github.com/avdeyev/storefront/internal/middleware/auth"
	"github.com/avdeyev/storefront/internal/service"
	"github.com/avdeyev/storefront/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
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

// AddToCart applies a signed quantity delta; the caller computes absolute
// sets as deltas against its last-seen state.
func (h *CartHTTP) AddToCart(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body", nil)
	}
	if req.ProductID == "" {
		return apperr.Validation("Validation failed", map[string]string{"product_id": "product_id is required"})
	}

	if err := h.Svc.ApplyDelta(c.Request().Context(), userID, req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *CartHTTP) DeleteRow(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperr.Validation("Invalid cart item id", nil)
	}

	if err := h.Svc.RemoveRow(c.Request().Context(), userID, uint(id)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *CartHTTP) Clear(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Clear(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
