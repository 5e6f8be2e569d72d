package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	_ "github.com/adityadhiman-in/bcryptjs-authentication/docs" // swagger docs

	"github.com/adityadhiman-in/bcryptjs-authentication/internal/cache"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/config"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/db"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/handler"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/logger"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/model"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/repository"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/router"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/service"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/session"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/web"
)

// @title Authentication Gateway
// @version 1.0
// @description Username/password authentication gateway with server-side sessions.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	e := echo.New()

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}
	e.Renderer = renderer

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	// Initialize repositories and stores
	userRepo := repository.NewUserRepository(gormDB)
	userCache := cache.New(redisClient)
	sessionStore := session.NewRedisStore(redisClient)

	// Initialize services
	userService := service.NewUserService(userRepo, userCache)
	sessionManager := session.NewManager(sessionStore, userService, cfg.SessionTTL)
	authService := service.NewAuthService(userRepo, sessionManager, cfg.BcryptCost)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, sessionManager)
	pagesHandler := handler.NewPagesHandler()

	// Register routes
	router.Register(e, sessionManager, authHandler, pagesHandler)

	addr := ":" + cfg.ServerPort
	logger.Log.Infow("starting server", "addr", addr)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
