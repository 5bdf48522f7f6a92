package main

import (
	"flag"
	"fmt"
	"os"

	"campaign-mailer/services/mailer/models"
	"campaign-mailer/services/mailer/repository"
	"campaign-mailer/services/mailer/usecase"
	"campaign-mailer/shared/config"
	"campaign-mailer/shared/database"
	"campaign-mailer/shared/logger"
)

func main() {
	var (
		email    = flag.String("email", os.Getenv("SEED_USER_EMAIL"), "Operator email")
		name     = flag.String("name", os.Getenv("SEED_USER_NAME"), "Operator display name")
		password = flag.String("password", os.Getenv("SEED_USER_PASSWORD"), "Operator password")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	log := logger.New(&logger.Config{
		Level:       "info",
		Format:      "text",
		Environment: "development",
	})

	if *email == "" || *password == "" {
		log.Fatal("email and password are required (flags or SEED_USER_* env vars)")
	}
	if *name == "" {
		*name = "Operator"
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbConfig := database.DefaultConfig(cfg.Database.URL)
	db, err := database.Connect(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(&models.User{}, &models.EmailTemplateInfo{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	hash, err := usecase.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userRepo := repository.NewUserRepository(db)

	// Update the password when the operator already exists
	if existing, err := userRepo.GetByEmail(*email); err == nil {
		existing.Name = *name
		existing.HashedPassword = hash
		existing.IsActive = true
		if err := userRepo.Update(existing); err != nil {
			log.Fatalf("Failed to update operator: %v", err)
		}
		log.Infof("Operator %s updated", *email)
		return
	}

	user := &models.User{
		Email:          *email,
		Name:           *name,
		HashedPassword: hash,
		IsActive:       true,
	}
	if err := userRepo.Create(user); err != nil {
		log.Fatalf("Failed to create operator: %v", err)
	}

	log.Infof("Operator %s created", *email)
}

func showHelp() {
	fmt.Println("Seeds the operator account used to trigger sends.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  seed -email ops@example.com -name 'Ops' -password secret")
	fmt.Println()
	fmt.Println("Flags fall back to SEED_USER_EMAIL, SEED_USER_NAME and")
	fmt.Println("SEED_USER_PASSWORD environment variables.")
}
