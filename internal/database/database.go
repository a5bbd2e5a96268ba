package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"foodgram/internal/domain"
	"foodgram/internal/logging"
)

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Connect opens PostgreSQL for postgres:// URLs and SQLite (pure Go driver)
// for anything else, including ":memory:".
func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: gormlogger.New(
			logging.NewWarnWriter("gorm"),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}

	var (
		db  *gorm.DB
		err error
	)
	if isPostgres(dsn) {
		logging.Logger().Info("connecting to PostgreSQL")
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, err
		}
	} else {
		logging.Logger().WithField("dsn", dsn).Info("using SQLite")
		db, err = gorm.Open(
			gormsqlite.New(gormsqlite.Config{
				DriverName: "sqlite",
				DSN:        dsn,
			}),
			cfg,
		)
		if err != nil {
			return nil, err
		}
		if err := configureSQLite(db); err != nil {
			return nil, err
		}
	}

	if err := db.Use(otelgorm.NewPlugin()); err != nil {
		return nil, fmt.Errorf("install tracing plugin: %w", err)
	}
	return db, nil
}

// A single connection keeps ":memory:" databases alive across queries and
// serialises SQLite writers. Callers must not use the outer *gorm.DB inside
// a Transaction closure.
func configureSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	return db.Exec("PRAGMA foreign_keys = ON").Error
}

// AutoMigrate creates or updates every table, index and check constraint.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}
