package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avdeyev/storefront/internal/apperr"
	"github.com/avdeyev/storefront/internal/transport"
)

func TestGetProductsPagination(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 3; i++ {
		seedProduct(t, env, 10)
	}

	rec := env.doJSONRequest(http.MethodGet, "/api/products?page=1&size=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []transport.ProductView `json:"data"`
		Meta map[string]any          `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.EqualValues(t, 3, body.Meta["total"])
	require.EqualValues(t, 2, body.Meta["total_pages"])
	require.Equal(t, true, body.Meta["has_next"])
	require.Equal(t, false, body.Meta["has_prev"])
}

func TestGetProductDetail(t *testing.T) {
	env := newTestEnv(t)
	productID := seedProduct(t, env, 10, 20, 30)

	rec := env.doJSONRequest(http.MethodGet, "/api/products/"+productID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view transport.ProductView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, productID, view.ID)
	require.True(t, view.HasSizes)
	require.InDelta(t, 20.0, view.Price, 1e-9)
	require.Len(t, view.Sizes, 3)
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSONRequest(http.MethodGet, "/api/products/no-such-product", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	e := decodeError(t, rec)
	require.Equal(t, apperr.TypeNotFound, e["type"])
}

func TestSearchProducts(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doAdminRequest(http.MethodPost, "/api/admin/products", map[string]string{
		"name": "red hoodie", "description": "cotton",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.doAdminRequest(http.MethodPost, "/api/admin/products", map[string]string{
		"name": "blue jeans", "description": "denim",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/api/products/search?q=hoodie", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total    int64                   `json:"total"`
		Products []transport.ProductView `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.EqualValues(t, 1, body.Total)
	require.Len(t, body.Products, 1)
	require.Equal(t, "red hoodie", body.Products[0].Name)
}

func TestSearchRequiresQuery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSONRequest(http.MethodGet, "/api/products/search", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRequiresKey(t *testing.T) {
	env := newTestEnv(t)

	// no key at all
	rec := env.doJSONRequest(http.MethodPost, "/api/admin/products", map[string]string{"name": "x"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	e := decodeError(t, rec)
	require.Equal(t, apperr.TypeAuth, e["type"])

	// wrong key
	req := httptest.NewRequest(http.MethodPost, "/api/admin/products", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	wrongRec := httptest.NewRecorder()
	env.E.ServeHTTP(wrongRec, req)
	require.Equal(t, http.StatusUnauthorized, wrongRec.Code)
}

func TestAdminProductLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doAdminRequest(http.MethodPost, "/api/admin/products", map[string]string{
		"name": "hoodie", "description": "warm",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var view transport.ProductView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotEmpty(t, view.ID)
	require.False(t, view.HasSizes)

	rec = env.doAdminRequest(http.MethodPut, "/api/admin/products/"+view.ID, map[string]string{
		"name": "zip hoodie",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "zip hoodie", view.Name)
	require.Equal(t, "warm", view.Description)

	rec = env.doAdminRequest(http.MethodDelete, "/api/admin/products/"+view.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/api/products/"+view.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminSizeLifecycle(t *testing.T) {
	env := newTestEnv(t)
	productID := seedProduct(t, env, 10)

	rec := env.doAdminRequest(http.MethodPost, "/api/admin/products/"+productID+"/sizes", map[string]any{
		"size": "XL", "price": 30.0, "stock": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var size struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &size))
	require.NotZero(t, size.ID)

	rec = env.doAdminRequest(http.MethodPut, fmt.Sprintf("/api/admin/sizes/%d", size.ID), map[string]any{
		"price": 50.0,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/api/products/"+productID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view transport.ProductView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.InDelta(t, 30.0, view.Price, 1e-9)

	rec = env.doAdminRequest(http.MethodDelete, fmt.Sprintf("/api/admin/sizes/%d", size.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/api/products/"+productID, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.InDelta(t, 10.0, view.Price, 1e-9)
}

func TestAdminCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doAdminRequest(http.MethodPost, "/api/admin/products", map[string]string{"name": "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	e := decodeError(t, rec)
	require.Equal(t, apperr.TypeValidation, e["type"])
}
