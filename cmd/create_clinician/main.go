package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/clinora/clinora/domain/entity"
	"github.com/clinora/clinora/infrastructure/config"
	"github.com/clinora/clinora/infrastructure/persistence/postgres"
	"github.com/clinora/clinora/infrastructure/service/password"
)

// Bootstraps the first clinician account. Every later account is provisioned
// through the API by an existing clinician.
func main() {
	ctx := context.Background()

	if len(os.Args) < 3 {
		log.Fatal("usage: create_clinician <email> <password> [full name]")
	}
	email := os.Args[1]
	plainPassword := os.Args[2]
	fullName := "Clinician"
	if len(os.Args) > 3 {
		fullName = os.Args[3]
	}

	if len(plainPassword) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	passwordService := password.NewBcryptService(10)
	hash, err := passwordService.HashPassword(plainPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	profile := entity.NewProfile(uuid.New().String(), email, hash, entity.RoleClinician)
	profile.FullName = fullName

	profileRepo := postgres.NewProfileRepository(db)
	if err := profileRepo.Create(ctx, profile); err != nil {
		log.Fatalf("Failed to create clinician: %v", err)
	}

	fmt.Printf("Clinician created: %s (%s)\n", profile.Email, profile.ID)
}
