package main

import (
	"log"
	"os"

	"video-saas-be/internal/model"
	"video-saas-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate
	models := []interface{}{
		&model.SubscriptionPackage{},
		&model.Subscription{},
		&model.SubscriptionUsage{},
		&model.Video{},
		&model.UsageCharge{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: constraints GORM does not express
	postMigrationSQL := []string{
		`DO $$ BEGIN
		   IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_subscription_usages_subscription') THEN
		     ALTER TABLE subscription_usages ADD CONSTRAINT fk_subscription_usages_subscription
		       FOREIGN KEY (subscriptions_id) REFERENCES subscriptions(id) ON DELETE CASCADE;
		   END IF;
		 END $$;`,
		`DO $$ BEGIN
		   IF EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_usage_subscription_created'
		              AND indexdef NOT LIKE 'CREATE UNIQUE%') THEN
		     DROP INDEX idx_usage_subscription_created;
		   END IF;
		 END $$;`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_usage_subscription_created ON subscription_usages (subscriptions_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_usage_charges_pending ON usage_charges (updated_at) WHERE status = 'pending';`,
		`CREATE INDEX IF NOT EXISTS idx_videos_user_created ON videos (user_id, created_at, id);`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
