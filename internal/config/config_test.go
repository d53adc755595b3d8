package config

import (
	"path/filepath"
	"testing"

	"nfc-cooperative/internal/pkg/password"

	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IsDev() || cfg.Port != "3000" {
		t.Errorf("mode %s port %s", cfg.AppMode, cfg.Port)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.Path != "data/nfc_cooperative.db" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Scheduler.InterestCron != "0 1 1 * *" || !cfg.Scheduler.Enabled {
		t.Errorf("scheduler = %+v", cfg.Scheduler)
	}
	if cfg.GetAllowedOrigins() != "*" {
		t.Errorf("dev origins = %q", cfg.GetAllowedOrigins())
	}
}

func TestLoadProdPostgres(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("DB_DRIVER", " Postgres ")
	t.Setenv("PROD_DB_HOST", "db.internal")
	t.Setenv("PROD_JWT_SECRET", "prod-secret")
	t.Setenv("PROD_COOKIE_SECURE", "true")
	t.Setenv("ACCESS_TOKEN_MINUTES", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IsProd() {
		t.Errorf("mode = %s", cfg.AppMode)
	}
	if cfg.Database.Driver != DriverPostgres || cfg.Database.Port != "5432" || cfg.Database.Host != "db.internal" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Database.Debug {
		t.Error("debug logging enabled in prod")
	}
	if cfg.JWT.Secret != "prod-secret" || cfg.JWT.AccessTokenMins != 30 {
		t.Errorf("jwt = %+v", cfg.JWT)
	}
	if !cfg.Cookie.Secure {
		t.Error("cookie not secure in prod")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		driver string
	}{
		{"mode", "staging", ""},
		{"driver", "dev", "oracle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_MODE", tt.mode)
			t.Setenv("DB_DRIVER", tt.driver)
			if _, err := Load(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestMigrateIsRepeatable(t *testing.T) {
	password.Cost = bcrypt.MinCost
	t.Cleanup(func() { password.Cost = password.DefaultCost })

	db, err := OpenDatabase(DatabaseConfig{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "seed.db")})
	if err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	seed := SeedConfig{AdminUsername: "admin", AdminPassword: "admin123456"}

	for i := 0; i < 2; i++ {
		if err := Migrate(db, seed); err != nil {
			t.Fatalf("Migrate run %d: %v", i+1, err)
		}
	}

	counts := map[string]int64{"savings_types": 4, "loan_types": 7, "system_settings": int64(len(DefaultSettings)), "users": 1}
	for table, want := range counts {
		var got int64
		if err := db.Table(table).Count(&got).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s rows = %d, want %d", table, got, want)
		}
	}
}

func TestOpenDatabaseUnknownDriver(t *testing.T) {
	if _, err := OpenDatabase(DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Error("expected an error for an unknown driver")
	}
}
