package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/recipe-scribe/backend/config"
	"github.com/recipe-scribe/backend/internal/model"
)

// New opens the recipe store from cfg.DatabaseURL and migrates the schema.
// Returns (nil, nil) when no store is configured; callers treat a nil handle
// as "store unavailable" rather than an error.
func New(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, recipe store routes will be unavailable")
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.AutoMigrate(&model.Recipe{}); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	logger.Info("successfully connected to database")
	return db, nil
}
