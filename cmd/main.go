package main

import (
	"fmt"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/studyforge/studyforge/config"
	"github.com/studyforge/studyforge/internal/db"
	"github.com/studyforge/studyforge/internal/db/repos"
	"github.com/studyforge/studyforge/internal/logger"
	"github.com/studyforge/studyforge/internal/services"
	"github.com/studyforge/studyforge/pkg/api/v1/handlers"
	"github.com/studyforge/studyforge/pkg/api/v1/middleware"
	"github.com/studyforge/studyforge/pkg/api/v1/routes"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	logger.InitializeAndConfigure()

	database, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", db.DefaultHost),
		User:     config.GetEnv("DB_USER", db.DefaultUser),
		Password: config.GetEnv("DB_PASSWORD", db.DefaultPassword),
		DBName:   config.GetEnv("DB_NAME", db.DefaultDBName),
		Port:     config.GetEnvInt("DB_PORT", db.DefaultPort),
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Errorf("Failed to close database: %v", err)
		}
	}()

	// Repositories and services
	generationRepo := repos.NewGenerationRepository(database)
	eventRepo := repos.NewGenerationEventRepository(database)
	generationService := services.NewGenerationService(generationRepo, eventRepo, services.NewLogTrigger())

	// Auth verifier wired from the environment
	ownerKeys, err := middleware.ParseOwnerKeys(config.GetEnv("OWNER_API_KEYS", ""))
	if err != nil {
		logger.Fatalf("Failed to parse OWNER_API_KEYS: %v", err)
	}
	verifier := middleware.NewStaticVerifier(ownerKeys, config.GetEnv("WORKER_API_KEY", ""))

	// HTTP server
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})
	app.Use(middleware.Logger())

	routes.RegisterRoutes(app,
		handlers.NewGenerationHandler(generationService),
		handlers.NewWorkerHandler(generationService),
		middleware.OwnerAuth(verifier),
		middleware.WorkerAuth(verifier),
	)

	port := config.GetEnv("PORT", routes.DefaultPort)
	logger.Infof("Starting API server on port %s", port)
	if err := app.Listen(fmt.Sprintf(":%s", port)); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
