package database

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPath returns the per-user location of the registry database file.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".simples", "simples.db"), nil
}

// ResolvePath returns the effective database file for the configuration,
// falling back to the per-user default when no explicit path is set.
func ResolvePath(cfg Config) (string, error) {
	if cfg.Path != "" {
		return cfg.Path, nil
	}
	return DefaultPath()
}

// Exists reports whether the registry database file is present on disk.
// It is always true for the mysql driver, where presence is not file-based.
func Exists(cfg Config) bool {
	if cfg.Driver == "mysql" {
		return true
	}
	path, err := ResolvePath(cfg)
	if err != nil || path == ":memory:" {
		return err == nil
	}
	_, statErr := os.Stat(path)
	return statErr == nil
}

// Connect opens the registry database and returns a *gorm.DB handle.
// SQLite is the default driver; the parent directory of the database file is
// created on demand. MySQL is supported for shared deployments.
func Connect(cfg Config) (*gorm.DB, error) {
	// Suppress GORM logging; callers report through the application logger.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch cfg.Driver {
	case "sqlite", "":
		path, err := ResolvePath(cfg)
		if err != nil {
			return nil, err
		}
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		db, err := gorm.Open(sqlite.Open(path), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return db, nil

	case "mysql":
		return connectMySQL(cfg, gormConfig)

	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Driver)
	}
}

func connectMySQL(cfg Config, gormConfig *gorm.Config) (*gorm.DB, error) {
	// Special characters in the password must be URL encoded for the DSN.
	userInfo := url.UserPassword(cfg.User, cfg.Password).String()

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
