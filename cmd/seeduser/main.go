// cmd/seeduser/main.go creates or updates the dashboard admin account.
// Usage: SEED_EMAIL=... SEED_PASSWORD=... go run ./cmd/seeduser
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/config"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/infra"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	email := envOr("SEED_EMAIL", "admin@mineral.local")
	password := envOr("SEED_PASSWORD", "1234")
	name := envOr("SEED_NAME", "Admin")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}

	user := model.User{Name: name, Email: email, Password: string(hash), Role: "admin"}
	result := db.WithContext(context.Background()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "password", "role", "updated_at"}),
		}).
		Create(&user)
	if result.Error != nil {
		log.Fatalf("upsert error: %v", result.Error)
	}
	fmt.Printf("user '%s' created/updated with password '%s'\n", email, password)
}
