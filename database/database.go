package database

import (
	"fmt"
	"net/url"
	"time"

	"github.com/viktsys/tefassync/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres and migrates the schema. password is applied to
// the DSN when the URL does not carry one.
func Open(dsn, password string) (*gorm.DB, error) {
	dsn, err := withPassword(dsn, password)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// One run issues a handful of statements
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the funds and price tables and their indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.FundEntity{}, &models.PriceHistory{}, &models.Price{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := OptimizeIndexes(db); err != nil {
		return err
	}
	return nil
}

func withPassword(dsn, password string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	if password == "" || u.User == nil {
		return dsn, nil
	}
	if _, set := u.User.Password(); set {
		return dsn, nil
	}
	u.User = url.UserPassword(u.User.Username(), password)
	return u.String(), nil
}
