// Package auth gates access to protected routes using the session cookie.
package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adityadhiman-in/bcryptjs-authentication/internal/logger"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/model"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/session"
)

// CookieName is the cookie carrying the opaque session token.
const CookieName = "session_token"

// ContextUserKey is where RequireSession stores the resolved user on the
// echo context.
const ContextUserKey = "auth.user"

// RequireSession resolves the request's session cookie to a user before the
// handler runs. Unknown, expired and orphaned sessions all redirect to the
// login page; only a session-store outage produces an error response.
func RequireSession(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := resolveCookie(c, sessions)
			if err != nil {
				logger.Log.Errorw("resolve session", "error", err)
				return c.String(http.StatusInternalServerError, "Internal server error")
			}
			if user == nil {
				return c.Redirect(http.StatusFound, "/login")
			}
			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user attached by RequireSession, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(ContextUserKey).(*model.User)
	return user
}

// TokenFromRequest extracts the session token, or "" when the cookie is
// absent.
func TokenFromRequest(c echo.Context) string {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie attaches a session cookie whose lifetime matches the
// session TTL.
func SetSessionCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func resolveCookie(c echo.Context, sessions *session.Manager) (*model.User, error) {
	token := TokenFromRequest(c)
	if token == "" {
		return nil, nil
	}
	return sessions.Resolve(c.Request().Context(), token)
}
