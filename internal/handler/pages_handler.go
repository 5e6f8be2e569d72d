package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adityadhiman-in/bcryptjs-authentication/internal/auth"
)

// PagesHandler renders the HTML pages.
type PagesHandler struct{}

// NewPagesHandler creates a page handler.
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// Home renders the landing page.
func (h *PagesHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "home.html", nil)
}

// LoginPage renders the login form.
func (h *PagesHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", nil)
}

// RegisterPage renders the registration form.
func (h *PagesHandler) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", nil)
}

// Secrets renders the protected page. It runs behind auth.RequireSession, so
// a user is always attached by the time it executes.
func (h *PagesHandler) Secrets(c echo.Context) error {
	user := auth.CurrentUser(c)
	return c.Render(http.StatusOK, "secrets.html", map[string]interface{}{
		"Email": user.Email,
	})
}
