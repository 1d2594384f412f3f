package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"talentscreen/job-screening/internal/config"
	"talentscreen/job-screening/internal/handlers"
	"talentscreen/job-screening/internal/middleware"
	"talentscreen/job-screening/internal/repositories"
	"talentscreen/job-screening/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	evalRepo := repositories.NewEvaluationRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()

	// Initialize Gemini (embeddings always, generation when selected)
	geminiService, err := services.NewGeminiService(cfg.LLM.GeminiAPIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}
	log.Println("✅ Gemini initialized successfully")

	var generator services.GenerationService = geminiService
	if cfg.LLM.Provider == "openrouter" {
		generator = services.NewOpenRouterService(cfg.LLM.OpenRouterKey, cfg.LLM.OpenRouterModel)
		log.Println("✅ Using OpenRouter generation backend")
	}

	// Initialize Qdrant
	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize pipeline
	pipeline := services.NewEvaluationPipeline(
		pdfParser,
		geminiService,
		qdrantService,
		generator,
		cfg.Retrieval.TopK,
	)

	// Initialize worker and executor; the executor registers its handler on
	// the worker's task registry and schedules retries through it.
	worker := services.NewWorker(evalRepo, cfg.Worker.Concurrency, cfg.Worker.RetryDelay)
	executor := services.NewTaskExecutor(
		evalRepo,
		pipeline,
		worker,
		services.DefaultClassifier(),
		cfg.Worker.MaxAttempts,
	)
	worker.Register(services.TaskRunEvaluation, executor.Execute)

	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	uploadHandler := handlers.NewUploadHandler(docRepo, storageService, cfg.Storage.MaxFileSize)
	evaluateHandler := handlers.NewEvaluateHandler(evalRepo, appRepo, docRepo, jobRepo, worker)
	resultHandler := handlers.NewResultHandler(evalRepo)
	jobHandler := handlers.NewJobHandler(jobRepo)
	applicationHandler := handlers.NewApplicationHandler(appRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Job Screening API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")
	requireAuth := middleware.RequireAuth(cfg.Auth.JWTSecret)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/auth/register", authHandler.HandleRegister)
	api.Post("/auth/login", authHandler.HandleLogin)

	api.Get("/jobs", jobHandler.HandleListJobs)
	api.Get("/jobs/:id", jobHandler.HandleGetJob)
	api.Post("/jobs", requireAuth, jobHandler.HandleCreateJob)

	api.Post("/upload", requireAuth, uploadHandler.HandleUpload)
	api.Post("/evaluate", requireAuth, evaluateHandler.HandleEvaluate)
	api.Get("/result/:id", requireAuth, resultHandler.HandleGetResult)
	api.Get("/applications", requireAuth, applicationHandler.HandleListApplications)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
