package database

import (
	"log"

	"rently-backend/internal/config"
	"rently-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	Migrate(DB)

	log.Println("Database connected, migration complete.")
}

// Migrate runs AutoMigrate for every model. Exposed separately so tests can
// point it at an in-memory sqlite database.
func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Request{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}
