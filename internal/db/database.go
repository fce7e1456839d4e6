// Package db owns the gorm connection to the execution-audit Postgres
// database. Grounded on the teacher's db/database.go InitDB/AutoMigrate
// pattern, trimmed from its ZKPay-intent schema to CrossFund's single
// execution-audit table.
package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crossfund/internal/config"
	"crossfund/internal/models"
)

// DB is the process-wide gorm handle, set by InitDB.
var DB *gorm.DB

// InitDB opens the configured Postgres connection and migrates the
// execution-audit schema.
func InitDB() error {
	if config.AppConfig == nil || config.AppConfig.Database.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}

	conn, err := gorm.Open(postgres.Open(config.AppConfig.Database.DSN), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		SkipDefaultTransaction:                   true,
		PrepareStmt:                              true,
		CreateBatchSize:                          1000,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	if err := conn.AutoMigrate(&models.ExecutionRecord{}); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	DB = conn
	log.Println("database connected and migrated")
	return nil
}
