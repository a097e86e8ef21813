package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avdeyev/storefront/internal/apperr"
	authmw "github.com/avdeyev/storefront/internal/middleware/auth"
	"github.com/avdeyev/storefront/internal/models"
	"github.com/avdeyev/storefront/internal/repo"
	"github.com/avdeyev/storefront/internal/search"
	"github.com/avdeyev/storefront/internal/service"
)

const testAdminKey = "test-admin-key"

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	Repo *repo.GormRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	r := repo.New(db)

	authSvc := &service.AuthService{
		Repo:     r,
		Secret:   []byte("test_secret"),
		TokenTTL: 7 * 24 * time.Hour,
	}
	catalogSvc := &service.CatalogService{
		Repo:   r,
		Search: search.NewService(nil, "products", r),
	}

	e := echo.New()
	e.HTTPErrorHandler = apperr.ErrorHandler
	Register(e, &Deps{
		AuthHandler:      &AuthHTTP{Svc: authSvc},
		CatalogHandler:   &CatalogHTTP{Svc: catalogSvc, Search: catalogSvc.Search},
		CartHandler:      &CartHTTP{Svc: &service.CartService{Repo: r}},
		FavoritesHandler: &FavoritesHTTP{Svc: &service.FavoritesService{Repo: r}},
		AdminHandler:     &AdminHTTP{Catalog: catalogSvc, Images: &service.ImageService{Dir: t.TempDir()}},
		Session:          &authmw.SessionMiddleware{Auth: authSvc},
		AdminKey:         testAdminKey,
	})

	return &testEnv{T: t, E: e, Repo: r}
}

// doJSONRequest pushes the request through the full router so middleware
// and the error handler apply, exactly as in production.
func (env *testEnv) doJSONRequest(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doAdminRequest(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+testAdminKey)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, env *testEnv, email string) *http.Cookie {
	t.Helper()

	payload := map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "password1",
	}
	recReg := env.doJSONRequest(http.MethodPost, "/api/register", payload)
	require.Equal(t, http.StatusCreated, recReg.Code)

	recLogin := env.doJSONRequest(http.MethodPost, "/api/login", payload)
	require.Equal(t, http.StatusOK, recLogin.Code)

	for _, ck := range recLogin.Result().Cookies() {
		if ck.Name == authmw.SessionCookie && ck.Value != "" {
			return ck
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

// seedProduct creates a product with one size per price, through the
// admin endpoints.
func seedProduct(t *testing.T, env *testEnv, prices ...float64) string {
	t.Helper()

	rec := env.doAdminRequest(http.MethodPost, "/api/admin/products", map[string]string{
		"name":        "test product",
		"description": "seeded for tests",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var view struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))

	labels := []string{"S", "M", "L", "XL"}
	for i, price := range prices {
		recSize := env.doAdminRequest(http.MethodPost, "/api/admin/products/"+view.ID+"/sizes", map[string]any{
			"size":  labels[i%4],
			"price": price,
			"stock": 10,
		})
		require.Equal(t, http.StatusCreated, recSize.Code)
	}
	return view.ID
}

// decodeError asserts the uniform error envelope shape and returns its
// inner object.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body struct {
		Error map[string]any `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	require.NotEmpty(t, body.Error["type"])
	require.NotEmpty(t, body.Error["message"])
	require.NotEmpty(t, body.Error["timestamp"])
	return body.Error
}
