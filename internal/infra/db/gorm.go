package db

import (
	"fmt"

	"bookstore/internal/config"
	"bookstore/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	switch cfg.DBDriver {
	case config.DriverPostgres:
		return gorm.Open(postgres.Open(cfg.PostgresDSN()), gcfg)
	case config.DriverSQLite:
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.DBDriver)
	}
}

// Migrate はテーブルを作る（開発用）
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	)
}
