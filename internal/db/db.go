package db

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stmarysschool/points-backend/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the points database file. busy_timeout keeps concurrent
// request handlers from failing fast on SQLite's single-writer lock.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DBPath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	gcfg := &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	}
	conn, err := gorm.Open(sqlite.Open(dsn), gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)

	return conn, nil
}
