package httpserver

import (
	"github.com/labstack/echo/v4"

	authmw "github.com/avdeyev/storefront/internal/middleware/auth"
)

type Deps struct {
	AuthHandler      *AuthHTTP
	CatalogHandler   *CatalogHTTP
	CartHandler      *CartHTTP
	FavoritesHandler *FavoritesHTTP
	AdminHandler     *AdminHTTP
	Session          *authmw.SessionMiddleware
	AdminKey         string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)
	api.GET("/session", d.AuthHandler.Session, d.Session.RequireLogin)
	api.POST("/logout", d.AuthHandler.Logout)

	api.GET("/products", d.CatalogHandler.GetProducts)
	api.GET("/products/search", d.CatalogHandler.SearchProducts)
	api.GET("/products/:id", d.CatalogHandler.GetProduct)

	cart := api.Group("/cart", d.Session.RequireLogin)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.DELETE("", d.CartHandler.Clear)
	cart.DELETE("/:id", d.CartHandler.DeleteRow)

	favorites := api.Group("/favorites", d.Session.RequireLogin)
	favorites.GET("", d.FavoritesHandler.GetFavorites)
	favorites.GET("/check", d.FavoritesHandler.Check)
	favorites.POST("/:id", d.FavoritesHandler.Toggle)

	admin := api.Group("/admin", authmw.RequireAdminKey(d.AdminKey))
	admin.POST("/products", d.AdminHandler.CreateProduct)
	admin.PUT("/products/:id", d.AdminHandler.UpdateProduct)
	admin.DELETE("/products/:id", d.AdminHandler.DeleteProduct)
	admin.POST("/products/:id/sizes", d.AdminHandler.AddSize)
	admin.PUT("/sizes/:id", d.AdminHandler.UpdateSize)
	admin.DELETE("/sizes/:id", d.AdminHandler.DeleteSize)
	admin.POST("/products/:id/image", d.AdminHandler.UploadImage)
	admin.DELETE("/assets/:id", d.AdminHandler.DeleteAsset)
}
