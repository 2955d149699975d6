package main

import (
	"context"
	"log"
	"os"

	"clinician-notes-service/internal/adapters"
	"clinician-notes-service/internal/api/handlers"
	"clinician-notes-service/internal/config"
	"clinician-notes-service/internal/domain/entities"
	"clinician-notes-service/internal/domain/repositories"
	"clinician-notes-service/internal/observability"
	"clinician-notes-service/internal/security"
	"clinician-notes-service/internal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := log.New(os.Stdout, "clinician-notes: ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&entities.User{},
		&entities.Patient{},
		&entities.Session{},
		&entities.AiSuggestion{},
		&entities.NoteVersion{},
		&entities.AuditLog{},
	); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	cipher, err := security.NewCipher(cfg.EncryptionKey)
	if err != nil {
		logger.Fatalf("Failed to initialize transcript cipher: %v", err)
	}

	metrics := observability.NewInMemorySink()

	sessionRepo := repositories.NewGormSessionRepository(db)
	versionRepo := repositories.NewGormNoteVersionRepository(db)
	suggestionRepo := repositories.NewGormAiSuggestionRepository(db)
	auditRepo := repositories.NewGormAuditLogRepository(db)
	transactor := repositories.NewGormTransactor(db)

	guardrails := services.NewGuardrailsService(metrics, logger)
	audit := services.NewAuditService(auditRepo, logger)
	engine := adapters.NewGeminiEngine(cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	generation := services.NewGenerationService(engine, guardrails, metrics, logger)

	queue := adapters.NewInMemoryQueueAdapter(logger)
	eval := services.NewEvalService(queue, guardrails, logger)
	if err := eval.Start(context.Background()); err != nil {
		logger.Fatalf("Failed to start eval workers: %v", err)
	}
	defer eval.Stop(context.Background())

	notesService := services.NewNotesService(
		sessionRepo, versionRepo, suggestionRepo, transactor,
		guardrails, generation, audit, metrics, cipher, eval, logger,
	)
	sessionService := services.NewSessionService(sessionRepo, audit, transactor, cipher, logger)

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy", "service": "clinician-notes-service"})
	})

	handlers.RegisterSessionRoutes(app, handlers.NewSessionsHandler(sessionService, logger))
	handlers.RegisterNotesRoutes(app, handlers.NewNotesHandler(notesService, logger))

	logger.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
