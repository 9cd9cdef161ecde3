package main

import (
	"playhub/internal/config" // Custom import path (Config)
	"playhub/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logging library
)

// Main entry point for migration and seeding
func main() {
	cfg := config.LoadConfig() // Load configuration

	conn, err := db.Open(cfg) // Connect with the configured driver
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	db.Migrate(conn) // Create or update the schema
	db.Seed(conn)    // Insert starter data when empty
}
