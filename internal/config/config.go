package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	Database  DatabaseConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Scheduler SchedulerConfig
	Seed      SeedConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string
	Path     string // sqlite only
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string // postgres only
	Debug    bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// SchedulerConfig holds the cron specs of the background jobs
type SchedulerConfig struct {
	Enabled      bool
	InterestCron string
	SweepCron    string
}

// SeedConfig holds first-run seed values
type SeedConfig struct {
	AdminUsername string
	AdminPassword string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	db, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:   appMode,
		Port:      getEnv("PORT", "3000"),
		Database:  db,
		JWT:       loadJWTConfig(appMode),
		Cookie:    loadCookieConfig(appMode),
		Scheduler: loadSchedulerConfig(),
		Seed: SeedConfig{
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "admin123456"),
		},
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s]", appMode, db.Driver)
	return config, nil
}

// modePrefix returns the env key prefix for the mode
func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := modePrefix(mode)

	driver := strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", DriverSQLite)))
	defaultPort := "3306"
	switch driver {
	case DriverSQLite, DriverMySQL:
	case DriverPostgres:
		defaultPort = "5432"
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be sqlite, mysql or postgres)", driver)
	}

	return DatabaseConfig{
		Driver:   driver,
		Path:     getEnv(prefix+"DB_PATH", "data/nfc_cooperative.db"),
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "nfc_cooperative"),
		SSLMode:  getEnv(prefix+"DB_SSLMODE", "disable"),
		Debug:    mode == "dev",
	}, nil
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := modePrefix(mode)

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadSchedulerConfig loads the background job schedule
func loadSchedulerConfig() SchedulerConfig {
	enabled, _ := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "true"))

	return SchedulerConfig{
		Enabled:      enabled,
		InterestCron: getEnv("INTEREST_CRON", "0 1 1 * *"),
		SweepCron:    getEnv("DEFAULT_SWEEP_CRON", "30 0 * * *"),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return origins
}
