package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farmlog/farmlog-api/internal/config"
)

func OpenPostgres(conf *config.PostgresConfig, environment string) (*gorm.DB, error) {
	db, err := open(conf.DSN(), environment)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB -> %w", err)
	}
	if conf.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
	}
	if conf.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
	}

	return db, nil
}

func OpenPostgresWithURL(url, environment string) (*gorm.DB, error) {
	return open(url, environment)
}

func open(dsn, environment string) (*gorm.DB, error) {
	logLevel := logger.Warn
	if environment == "development" || environment == "local" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	return db, nil
}
