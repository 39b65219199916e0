package db

import (
	"fmt"
	"time"

	"infoshare/internal/config"
	"infoshare/internal/logger"
	"infoshare/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the configured store and tunes the pool.
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		dialector = postgres.Open(cfg.DSN)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(time.Duration(cfg.SlowThreshold) * time.Millisecond),
		// unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database connection check failed: %w", err)
	}

	logger.Info("database connection established", logger.String("driver", cfg.Driver))
	return gdb, nil
}

// Migrate creates or updates every table the forum uses.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.HashTag{},
		&models.Post{},
		&models.Comment{},
		&models.PostReaction{},
		&models.Bookmark{},
		&models.Follow{},
		&models.PostPaid{},
		&models.PointLog{},
		&models.Notification{},
		&models.ReportPost{},
		&models.ReportUser{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database migration completed")
	return nil
}

// SeedCategories inserts the default categories on an empty table.
func SeedCategories(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Technology"},
		{Name: "Science"},
		{Name: "Life"},
		{Name: "Career"},
		{Name: "Off-topic"},
	}
	if err := gdb.Create(&categories).Error; err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	logger.Info("initial categories created", logger.Int("count", len(categories)))
	return nil
}
