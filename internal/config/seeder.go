package config

import (
	"log"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db   *gorm.DB
	seed SeedConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, seed SeedConfig) *Seeder {
	return &Seeder{db: db, seed: seed}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the first administrator when no admin exists.
// Change the password after the first login.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(s.seed.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:     s.seed.AdminUsername,
		PasswordHash: hashedPassword,
		FullName:     "System Administrator",
		IsActive:     true,
	}
	admin.ApplyRole(domain.RoleAdmin)

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}
