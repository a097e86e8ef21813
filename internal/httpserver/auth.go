package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/storefront/internal/apperr"
	authmw "github.com/avdeyev/storefront/internal/middleware/auth"
	"github.com/avdeyev/storefront/internal/service"
	"github.com/avdeyev/storefront/internal/transport"
)

type AuthHTTP struct {
	Svc    *service.AuthService
	Secure bool
}

func sessionCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     authmw.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body", nil)
	}

	user, err := h.Svc.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body", nil)
	}

	user, token, exp, err := h.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	maxAge := int(time.Until(exp).Seconds())
	c.SetCookie(sessionCookie(token, maxAge, h.Secure))
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) Session(c echo.Context) error {
	user, err := authmw.CurrentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(authmw.SessionCookie); err == nil {
		if err := h.Svc.Logout(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}

	c.SetCookie(sessionCookie("", -1, h.Secure))
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
