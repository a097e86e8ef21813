package httpserver

import (
	"net/http"
	"path"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/storefront/internal/apperr"
	"github.com/avdeyev/storefront/internal/service"
	"github.com/avdeyev/storefront/internal/transport"
)

type AdminHTTP struct {
	Catalog *service.CatalogService
	Images  *service.ImageService
}

func (h *AdminHTTP) CreateProduct(c echo.Context) error {
	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body", nil)
	}

	view, err := h.Catalog.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *AdminHTTP) UpdateProduct(c echo.Context) error {
	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body", nil)
	}

	view, err := h.Catalog.UpdateProduct(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	if err := h.Catalog.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) AddSize(c echo.Context) error {
	var req transport.CreateSizeRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body", nil)
	}

	size, err := h.Catalog.AddSize(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, size)
}

func (h *AdminHTTP) UpdateSize(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperr.Validation("Invalid size id", nil)
	}

	var req transport.UpdateSizeRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body", nil)
	}

	size, err := h.Catalog.UpdateSize(c.Request().Context(), uint(id), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, size)
}

func (h *AdminHTTP) DeleteSize(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperr.Validation("Invalid size id", nil)
	}

	if err := h.Catalog.DeleteSize(c.Request().Context(), uint(id)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage converts the multipart "image" field to WebP and records
// the result as an asset of the product.
func (h *AdminHTTP) UploadImage(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return apperr.Validation("Image file is required", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperr.Internal("")
	}
	defer file.Close()

	webpName, err := h.Images.ProcessAndSave(fileHeader.Filename, file)
	if err != nil {
		return err
	}

	asset, err := h.Catalog.AddAsset(
		c.Request().Context(),
		c.Param("id"),
		"",
		path.Join("/assets", webpName),
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, asset)
}

func (h *AdminHTTP) DeleteAsset(c echo.Context) error {
	if err := h.Catalog.DeleteAsset(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
