package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avdeyev/storefront/internal/apperr"
	"github.com/avdeyev/storefront/internal/repo"
)

func TestFavoritesToggleEndpoint(t *testing.T) {
	env := newTestEnv(t)
	productID := seedProduct(t, env, 10)
	cookie := login(t, env, "user@example.com")

	rec := env.doJSONRequest(http.MethodPost, "/api/favorites/"+productID, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var result map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, true, result["isFavorite"])
	require.Equal(t, "added", result["action"])

	rec = env.doJSONRequest(http.MethodPost, "/api/favorites/"+productID, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, false, result["isFavorite"])
	require.Equal(t, "removed", result["action"])
}

func TestFavoritesCheckEndpoint(t *testing.T) {
	env := newTestEnv(t)
	productID := seedProduct(t, env, 10)
	cookie := login(t, env, "user@example.com")

	rec := env.doJSONRequest(http.MethodGet, "/api/favorites/check?assetId="+productID, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var result map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.False(t, result["isFavorite"])

	rec = env.doJSONRequest(http.MethodPost, "/api/favorites/"+productID, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/api/favorites/check?assetId="+productID, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.True(t, result["isFavorite"])
}

func TestFavoritesCheckRequiresParam(t *testing.T) {
	env := newTestEnv(t)
	cookie := login(t, env, "user@example.com")

	rec := env.doJSONRequest(http.MethodGet, "/api/favorites/check", nil, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFavoritesListEndpoint(t *testing.T) {
	env := newTestEnv(t)
	productID := seedProduct(t, env, 10, 20)
	cookie := login(t, env, "user@example.com")

	rec := env.doJSONRequest(http.MethodPost, "/api/favorites/"+productID, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/api/favorites", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []repo.FavoriteRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	require.Equal(t, productID, rows[0].ProductID)
	require.InDelta(t, 15.0, rows[0].Price, 1e-9)
}

func TestFavoritesRequireLogin(t *testing.T) {
	env := newTestEnv(t)
	productID := seedProduct(t, env, 10)

	rec := env.doJSONRequest(http.MethodPost, "/api/favorites/"+productID, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	e := decodeError(t, rec)
	require.Equal(t, apperr.TypeAuth, e["type"])
}

func TestFavoritesUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	cookie := login(t, env, "user@example.com")

	rec := env.doJSONRequest(http.MethodPost, "/api/favorites/no-such-product", nil, cookie)
	require.Equal(t, http.StatusNotFound, rec.Code)
	e := decodeError(t, rec)
	require.Equal(t, apperr.TypeNotFound, e["type"])
}
