package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/storefront/internal/apperr"
	"github.com/avdeyev/storefront/internal/models"
	"github.com/avdeyev/storefront/internal/service"
)

const SessionCookie = "session"

type SessionMiddleware struct {
	Auth *service.AuthService
}

// RequireLogin resolves the cookie-borne session token to a user and
// attaches it to the request context. Missing cookie, bad signature,
// expiry and revocation all produce the same 401.
func (m *SessionMiddleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			return apperr.Auth("Authentication required")
		}

		user, err := m.Auth.ResolveSession(c.Request().Context(), cookie.Value)
		if err != nil {
			return err
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		return next(c)
	}
}

func CurrentUser(c echo.Context) (*models.User, error) {
	user, ok := c.Get("user").(*models.User)
	if !ok || user == nil {
		return nil, apperr.Auth("Authentication required")
	}
	return user, nil
}

func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok || id == 0 {
		return 0, apperr.Auth("Authentication required")
	}
	return id, nil
}

// RequireAdminKey gates the admin namespace with a bearer token equal to
// the configured admin key. This is not a user session.
func RequireAdminKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || key == "" {
				return apperr.Auth("Admin access required")
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
				return apperr.Auth("Admin access required")
			}
			return next(c)
		}
	}
}
