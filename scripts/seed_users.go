package main

import (
	"alertautec-backend/internal/config"
	"alertautec-backend/internal/database"
	"alertautec-backend/internal/database/models"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Simple structure that directly matches the DB schema
type UserData struct {
	Name              string `yaml:"name"`
	Email             string `yaml:"email"`
	Password          string `yaml:"password"`
	Role              string `yaml:"role"`
	EmailNotification string `yaml:"email_notification,omitempty"`
	Code              string `yaml:"code,omitempty"`
	PhoneNumber       string `yaml:"phone_number,omitempty"`
}

type UsersFile struct {
	Users []UserData `yaml:"users"`
}

func main() {
	log.Println("🚀 Seeding default accounts from YAML files...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database (retry while Postgres starts up)
	db, err := connectWithRetry(cfg.DatabaseURL, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Load and create users
	if err := seedUsers(db, "scripts/data"); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Println("✅ Default accounts seeded successfully!")
}

// connectWithRetry attempts to initialize the DB with retries to wait for Postgres readiness.
func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	// Configure database options to suppress verbose logging during seeding.
	// AutoMigrate keeps the seeder usable against a fresh database.
	opts := &database.Options{
		LogLevel:    logger.Silent, // Suppress all GORM logs including SQL queries and "record not found"
		AutoMigrate: true,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(dsn, opts)
		if err == nil {
			return db, nil
		}
		// Only log every 10 attempts to reduce noise
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

func seedUsers(db *gorm.DB, dataDir string) error {
	users, err := loadUsers(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	created := 0
	skipped := 0

	for _, userData := range users {
		if err := createUser(db, userData, &created, &skipped); err != nil {
			return err
		}
	}

	log.Printf("🎉 Seed complete: %d accounts created, %d already existed", created, skipped)
	return nil
}

func loadUsers(dataDir string) ([]UserData, error) {
	var allUsers []UserData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "users") {
			var file UsersFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			allUsers = append(allUsers, file.Users...)
		}
		return nil
	})

	return allUsers, err
}

func createUser(db *gorm.DB, userData UserData, created, skipped *int) error {
	var existing models.User
	if err := db.Where("email = ?", userData.Email).First(&existing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			hash, err := bcrypt.GenerateFromPassword([]byte(userData.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password for %s: %w", userData.Email, err)
			}

			emailNotification := userData.EmailNotification
			if emailNotification == "" {
				emailNotification = userData.Email
			}

			user := models.User{
				Email:             userData.Email,
				PasswordHash:      string(hash),
				Name:              userData.Name,
				Role:              models.Role(userData.Role),
				Code:              userData.Code,
				PhoneNumber:       userData.PhoneNumber,
				EmailNotification: emailNotification,
			}
			if err := db.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create user %s: %w", userData.Email, err)
			}
			log.Printf("✅ Account %s created (%s)", userData.Email, userData.Role)
			*created++
		} else {
			return fmt.Errorf("failed to look up user %s: %w", userData.Email, err)
		}
	} else {
		log.Printf("⏭️ Account %s already exists, skipping", userData.Email)
		*skipped++
	}
	return nil
}
