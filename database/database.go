package database

import (
	"fmt"
	"log"
	"os"

	"kivaiakids-api/internal/domain/billing"
	"kivaiakids-api/internal/domain/courses"
	"kivaiakids-api/internal/domain/eveil"
	"kivaiakids-api/internal/domain/subscriptions"
	"kivaiakids-api/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(
		// core
		&users.User{},
		&subscriptions.Subscription{},
		&billing.WebhookEvent{},

		// content
		&courses.Course{},
		&eveil.EveilItem{},
	); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}

	// At most one active subscription row per user. AutoMigrate cannot express
	// a partial index, so it is created directly.
	if err := DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_subscriptions_user_active
		 ON subscriptions (user_id) WHERE status = 'active';`,
	).Error; err != nil {
		log.Fatal("Failed to create active-subscription index:", err)
	}

	fmt.Println("Connected and migrated successfully")
}
