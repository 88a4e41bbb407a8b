package main

import (
	"context"
	"log"
	"os"

	"todo_webapp/internal/db"
	"todo_webapp/internal/domain"
	"todo_webapp/internal/repository"
	"todo_webapp/internal/service"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	username := "testuser"

	existing, err := repo.GetByUsername(ctx, username)
	var u *domain.User
	if err == nil {
		u = existing
		log.Printf("user already exists id=%d\n", u.ID)
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte("test-password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password failed: %v", err)
		}

		u = &domain.User{
			Username:     username,
			FirstName:    "Tester",
			PasswordHash: string(hash),
		}

		if err := repo.Create(ctx, u); err != nil {
			log.Fatalf("create user failed: %v", err)
		}

		log.Printf("user created id=%d\n", u.ID)
	}

	// verify read
	u2, err := repo.GetByUsername(ctx, u.Username)
	if err != nil {
		log.Fatalf("get by username failed: %v", err)
	}
	log.Printf("fetched user id=%d username=%s first_name=%s created_at=%v\n", u2.ID, u2.Username, u2.FirstName, u2.CreatedAt)

	// initialize JWT and print token
	service.InitJWT()
	token, err := service.GenerateJWT(u2.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
