package db

import (
	"playhub/internal/config" // Configuration
	"playhub/internal/domain" // Importing domain models

	"github.com/google/uuid"     // UUID generation
	"github.com/sirupsen/logrus" // Logging library

	"gorm.io/driver/mysql"  // MySQL driver for GORM
	"gorm.io/driver/sqlite" // SQLite driver for GORM
	"gorm.io/gorm"          // GORM ORM library
)

// Open connects to the configured database, MySQL in production or a local
// SQLite file for development
func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == "sqlite" {
		return gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	}
	return gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Game{},
		&domain.Friendship{},
		&domain.CatalogItem{},
		&domain.InventoryEntry{},
		&domain.PromoCode{},
		&domain.PromoRedemption{},
		&domain.ChatMessage{},
	)
	if err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}

// Seed inserts the starter catalog and a welcome promo code, only when empty
func Seed(db *gorm.DB) {
	var count int64 // Existing catalog size
	db.Model(&domain.CatalogItem{}).Count(&count)
	if count > 0 {
		logrus.Info("Catalog already seeded, skipping.") // Nothing to do
		return
	}
	// Starter catalog items
	items := []domain.CatalogItem{
		{ID: uuid.NewString(), Name: "Basic Hat", Type: "hat", Description: "A classic hat for your avatar", PriceCoins: 50},
		{ID: uuid.NewString(), Name: "Blue Shirt", Type: "shirt", Description: "Casual blue shirt", PriceCoins: 75},
		{ID: uuid.NewString(), Name: "Sunglasses", Type: "accessory", Description: "Stylish sunglasses", PriceCoins: 100},
		{ID: uuid.NewString(), Name: "Crown", Type: "hat", Description: "Golden crown", PriceCoins: 500},
	}
	if err := db.Create(&items).Error; err != nil {
		logrus.Fatalf("catalog seed failed: %v", err)
	}
	// Welcome code: 10 coins, single use
	welcome := domain.PromoCode{
		ID:          uuid.NewString(),
		Code:        "WELCOME10",
		CoinsAmount: 10,
		UsesTotal:   1,
		UsesLeft:    1,
	}
	if err := db.Create(&welcome).Error; err != nil {
		logrus.Fatalf("promo seed failed: %v", err)
	}
	logrus.Infof("Seeded %d catalog items and the welcome code.", len(items))
}
