package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance
var DB *gorm.DB

// ConnectDatabase opens the configured database and sets the global instance
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := OpenDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	// Set global DB instance
	DB = db

	log.Printf("✅ Database connected successfully [%s]", describe(cfg.Database))
	return db, nil
}

// OpenDatabase opens a gorm connection for the given driver and checks it
func OpenDatabase(d DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(d)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newGormLogger(log.New(os.Stdout, "\r\n", log.LstdFlags), d.Debug),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if d.Driver == DriverSQLite {
		// SQLite allows a single writer; one connection keeps postings serial
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// newGormLogger logs SQL in dev and errors only in prod. Lookups that find
// nothing are expected (seeders, optional accounts) and are not logged.
func newGormLogger(w logger.Writer, debug bool) logger.Interface {
	level := logger.Error
	if debug {
		level = logger.Info
	}
	return logger.New(w, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  debug,
	})
}

func dialectorFor(d DatabaseConfig) (gorm.Dialector, error) {
	switch d.Driver {
	case DriverSQLite, "":
		if d.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(d.Path), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		return sqlite.Open(d.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), nil
	case DriverMySQL:
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.DBName,
		)), nil
	case DriverPostgres:
		return postgres.Open(fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
		)), nil
	}
	return nil, fmt.Errorf("unsupported database driver: %s", d.Driver)
}

func describe(d DatabaseConfig) string {
	if d.Driver == DriverSQLite {
		return "sqlite:" + d.Path
	}
	return fmt.Sprintf("%s:%s:%s/%s", d.Driver, d.Host, d.Port, d.DBName)
}

// CloseDatabase closes the database connection
func CloseDatabase() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// HealthCheck checks if database is healthy
func HealthCheck() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}
