package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"go-helpdesk-api/internal/errs"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds the connection string from DATABASE_URL or the discrete DB_*
// variables. The TimeZone keeps DATE() grouping aligned with WIB.
func DSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Jakarta",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
}

// ConnectDB opens a pooled GORM connection. A connection failure is wrapped
// as ConnectivityError so callers can tell it apart from anything else.
func ConnectDB() (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  DSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statements for pooled PaaS databases
	}), &gorm.Config{
		Logger:      newLogger,
		PrepareStmt: false,
	})
	if err != nil {
		return nil, errs.Connectivity("connect", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errs.Connectivity("connect", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
	return db, nil
}
