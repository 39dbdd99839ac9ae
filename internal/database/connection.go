package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"measurement-api-server/internal/models"
)

func Connect() (*gorm.DB, error) {
	config, err := NewConfig()
	if err != nil {
		return nil, err
	}

	connStr := connectionString(*config)

	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Measurements are append-mostly; a single table with a timestamp
	// index is all the schema there is.
	if err := db.AutoMigrate(&models.Measurement{}); err != nil {
		return nil, err
	}

	sqlDB, _ := db.DB()
	// SetMaxIdleConns sets the maximum number of connections in the idle connection pool.
	sqlDB.SetMaxIdleConns(3)
	// SetMaxOpenConns sets the maximum number of open connections to the database.
	sqlDB.SetMaxOpenConns(5)
	// SetConnMaxLifetime sets the maximum amount of time a connection may be reused.
	sqlDB.SetConnMaxLifetime(time.Minute)

	return db, nil
}

// Timestamps are normalized to UTC at storage, so the session time zone is
// pinned rather than inherited from the host.
func connectionString(config envConfig) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		config.Host, config.User, config.Password, config.DBName, config.Port)
}
