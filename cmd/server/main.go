package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"nfc-cooperative/internal/adapters/http/middleware"
	"nfc-cooperative/internal/adapters/http/routes"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/config"
	"nfc-cooperative/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "nfc-cooperative/docs" // Swagger docs
)

// @title NFC Cooperative API
// @version 1.0
// @description Bookkeeping service of the NFC cooperative society: members, savings, loans, benefits and dividends.

// @contact.name API Support

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Tables, summary view, triggers, reference data and the first admin
	if err := config.Migrate(db, cfg.Seed); err != nil {
		log.Fatalf("❌ Failed to migrate database: %v", err)
	}
	log.Println("✅ Database migration completed")

	svc := services.New(repositories.NewStore(db), cfg)

	// Monthly interest and the daily overdue sweep
	if err := svc.Scheduler.Start(); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}
	defer svc.Scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "NFC Cooperative API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, svc, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	log.Printf("🚀 Server starting on port %s [MODE: %s, DB: %s]", cfg.Port, cfg.AppMode, cfg.Database.Driver)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
