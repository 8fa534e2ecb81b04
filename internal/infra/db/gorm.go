package db

import (
	"fmt"
	"log/slog"
	"time"

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
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	switch cfg.DBDriver {
	case "sqlite":
		slog.Info("db connect", "driver", "sqlite", "path", cfg.SQLitePath)
		return OpenSQLite(cfg.SQLitePath, gcfg)
	default:
		slog.Info("db connect", "driver", "postgres", "host", cfg.PostgresHost)
		return gorm.Open(postgres.Open(PostgresDSN(cfg)), gcfg)
	}
}

// DATABASE_URL があれば最優先で使う
func PostgresDSN(cfg config.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
	)
}

// 書き込みTxはBEGIN IMMEDIATEで直列化する
func OpenSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1&_txlock=immediate", path)
	return gorm.Open(sqlite.Open(dsn), gcfg)
}

// スキーマはこのアプリが持つ
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Publisher{},
		&model.Author{},
		&model.Book{},
		&model.BookAuthor{},
		&model.User{},
		&model.Customer{},
		&model.Cart{},
		&model.CartItem{},
		&model.SalesTransaction{},
		&model.SaleItem{},
		&model.PublisherOrder{},
		&model.PublisherOrderItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	)
}
