package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/adityadhiman-in/bcryptjs-authentication/internal/auth"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/handler"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/session"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	sessions *session.Manager,
	authHandler *handler.AuthHandler,
	pagesHandler *handler.PagesHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public pages and auth flows
	e.GET("/", pagesHandler.Home)
	e.GET("/login", pagesHandler.LoginPage)
	e.GET("/register", pagesHandler.RegisterPage)
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)

	// Protected routes require a live session
	secured := e.Group("", auth.RequireSession(sessions))
	secured.GET("/secrets", pagesHandler.Secrets)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
