package config

import (
	"bytes"
	"errors"
	"log"
	"path/filepath"
	"testing"

	"nfc-cooperative/internal/adapters/persistence/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestGormLoggerSkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "log.db")), &gorm.Config{
		Logger: newGormLogger(log.New(&buf, "", 0), false),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&models.SavingsType{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	var st models.SavingsType
	if err := db.Where("type_code = ?", "NONE").First(&st).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("got %v, want ErrRecordNotFound", err)
	}
	if buf.Len() != 0 {
		t.Errorf("missing row was logged: %q", buf.String())
	}

	if err := db.Exec("SELECT * FROM no_such_table").Error; err == nil {
		t.Fatal("expected an error for an unknown table")
	}
	if buf.Len() == 0 {
		t.Error("SQL error was not logged")
	}
}
