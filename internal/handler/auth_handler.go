package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adityadhiman-in/bcryptjs-authentication/internal/apperrors"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/auth"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/logger"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/service"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/session"
)

// AuthHandler handles the register, login and logout form submissions.
type AuthHandler struct {
	authService service.AuthService
	sessions    *session.Manager
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// CredentialsRequest represents a register or login form submission. The
// field is called username on the wire but holds the email.
type CredentialsRequest struct {
	Username string `form:"username" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

// Register godoc
// @Summary Register a new account and log it in
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce html
// @Param username formData string true "Email address"
// @Param password formData string true "Password"
// @Success 303 {string} string "Redirect to /secrets with session cookie"
// @Failure 200 {string} string "Email already exists"
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {string} string "Internal server error"
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid input")
	}
	if err := c.Validate(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid input")
	}

	_, token, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return c.String(http.StatusOK, "Email already exists. Try logging in.")
		}
		logger.Log.Errorw("register user", "error", err)
		return c.String(http.StatusInternalServerError, "Internal server error")
	}

	auth.SetSessionCookie(c, token, h.sessions.TTL())
	return c.Redirect(http.StatusSeeOther, "/secrets")
}

// Login godoc
// @Summary Authenticate and establish a session
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce html
// @Param username formData string true "Email address"
// @Param password formData string true "Password"
// @Success 303 {string} string "Redirect to /secrets with session cookie"
// @Failure 303 {string} string "Redirect to /login on bad credentials"
// @Failure 500 {string} string "Internal server error"
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	if err := c.Validate(&req); err != nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	user, err := h.authService.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if apperrors.IsAuthFailure(err) {
			// Log the distinct reason; the client sees the same redirect for
			// an unknown email and a wrong password.
			logger.Log.Infow("login rejected", "reason", err)
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		logger.Log.Errorw("login", "error", err)
		return c.String(http.StatusInternalServerError, "Internal server error")
	}

	token, err := h.sessions.Create(c.Request().Context(), user)
	if err != nil {
		logger.Log.Errorw("create session", "error", err)
		return c.String(http.StatusInternalServerError, "Internal server error")
	}

	auth.SetSessionCookie(c, token, h.sessions.TTL())
	return c.Redirect(http.StatusSeeOther, "/secrets")
}

// Logout godoc
// @Summary Destroy the current session
// @Tags auth
// @Produce html
// @Success 303 {string} string "Redirect to /"
// @Failure 500 {string} string "Internal server error"
// @Router /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	token := auth.TokenFromRequest(c)
	if err := h.sessions.Destroy(c.Request().Context(), token); err != nil {
		logger.Log.Errorw("destroy session", "error", err)
		return c.String(http.StatusInternalServerError, "Internal server error")
	}

	auth.ClearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/")
}
