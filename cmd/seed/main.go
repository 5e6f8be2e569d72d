package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/adityadhiman-in/bcryptjs-authentication/internal/apperrors"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/config"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/db"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/model"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/password"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/repository"
)

func main() {
	email := flag.String("email", "demo@example.com", "email of the seeded user")
	plain := flag.String("password", "changeme", "password of the seeded user")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	hash, err := password.Hash(*plain, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	repo := repository.NewUserRepository(gormDB)
	user := &model.User{Email: *email, PasswordHash: hash}
	if err := repo.Create(context.Background(), user); err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			log.Printf("User %s already exists, nothing to do", *email)
			return
		}
		log.Fatalf("Failed to create user: %v", err)
	}

	log.Printf("Seeded user %s with id %d", user.Email, user.ID)
}
