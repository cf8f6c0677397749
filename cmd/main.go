package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"passport/docs/swagger"
	"passport/internal/api"
	"passport/internal/audit"
	"passport/internal/config"
	"passport/internal/db"
	"passport/internal/events"
	"passport/internal/handlers"
	"passport/internal/services"
	"passport/internal/tasks"
	"passport/internal/tasks/rate"
	"passport/internal/utils/crypto"
	"passport/internal/utils/logger"

	"github.com/joho/godotenv"
)

// 🚀 Main function
// @Summary Main function
// @Description Main function
// @title Passport API
// @version 1.0
// @description Multi-tenant identity and authorization service
// @host localhost:8080
// @BasePath /
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {

	logger := logger.New("passport")

	// check if .env file exists
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		logger.Info("No .env file found, skipping environment variable loading")
	} else {
		logger.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the signing key
	if err := crypto.InitializeKey(cfg.JWT.Secret); err != nil {
		log.Fatalf("Failed to initialize signing key: %v", err)
	}

	// Connect to database
	if err := db.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		err := db.Close()
		if err != nil {
			log.Fatalf("Failed to close database connection: %v", err)
		}
	}()

	dbInstance := db.GetDB()

	// Start the audit recorder and expose it to the request path
	recorder := audit.NewRecorder(dbInstance, cfg.Audit.Buffer)
	handlers.RegisterAuditSink(recorder)

	// Entity CRUD goes through the generic service layer, which has no
	// request-path audit calls of its own; bridge its lifecycle events here.
	for _, entity := range []string{"platforms", "roles", "permissions"} {
		for _, action := range []string{"created", "updated", "deleted"} {
			entityName := entity
			eventKind := entityName + "." + action
			events.On(eventKind, func(data interface{}) {
				recorder.Record(audit.Event{
					Kind:     eventKind,
					Entity:   entityName,
					Snapshot: data,
				})
			})
		}
	}

	// Assignment edges created outside the API (the seeder) surface here
	for _, kind := range []string{"assignments.role_granted", "assignments.permission_granted"} {
		eventKind := kind
		events.On(eventKind, func(data interface{}) {
			logger.Info("graph edge added: %s %+v", eventKind, data)
		})
	}

	// Reset tokens go out via a mail worker in production; log them until
	// one is wired up
	events.On("auth.password_reset_requested", func(data interface{}) {
		logger.Info("password reset requested: %+v", data)
	})

	// Archive storage is optional; without it audit rows are retained
	var archiveService *services.ArchiveService
	if cfg.Archive.BucketName != "" {
		archiveService, err = services.NewArchiveService(
			cfg.Archive.BucketName,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
		)
		if err != nil {
			logger.Warn("Archive storage unavailable, audit rows will be retained: %v", err)
			archiveService = nil
		}
	}

	// Initialize task handlers
	taskHandler := tasks.NewTaskHandler(dbInstance, archiveService)

	// Initialize task server
	taskServer := tasks.NewServer(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Worker.Concurrency,
		taskHandler,
		logger,
	)

	// Create a context for task server
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	// Start task server
	go func() {
		if err := taskServer.Start(serverCtx); err != nil {
			logger.Error("Task server error", err)
		}
	}()

	// Initialize task scheduler
	taskScheduler := tasks.NewScheduler(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
		logger,
	)

	// Start task scheduler
	go func() {
		if err := taskScheduler.Start(); err != nil {
			logger.Error("Task scheduler error", err)
		}
	}()

	// Shared Redis connection backs both the task queue and login throttling
	taskClient := tasks.NewTaskClient(cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
	defer taskClient.Close()

	loginLimiter := rate.NewLoginRateLimiter(taskClient.GetRedisClient(), rate.RateLimit{
		Window:      15 * time.Minute,
		MaxAttempts: 10,
	})

	// Catch up on any cleanup missed while the service was down
	if err := taskClient.Enqueue(tasks.TaskTypeTokenCleanup, nil, tasks.CronSchedule("0 3 * * *")); err != nil {
		logger.Warn("Failed to enqueue startup cleanup: %v", err)
	}

	// Initialize API server
	apiServer := api.NewServer(cfg, dbInstance, loginLimiter)
	go func() {
		logger.Success("API server started")

		// Swagger documentation
		swagger.SwaggerInfo.Title = "Passport API Documentation"
		swagger.SwaggerInfo.Description = "Multi-tenant identity and authorization service"
		swagger.SwaggerInfo.Version = "1.0"
		swagger.SwaggerInfo.Host = cfg.Server.PublicURL
		swagger.SwaggerInfo.Schemes = []string{"https"}

		if err := apiServer.Start(); err != nil {
			logger.Error("API server error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the servers
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Create a deadline for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop task scheduler
	taskScheduler.Stop()

	// Stop task server
	serverCancel()
	taskServer.Shutdown()

	// Shutdown API server
	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown API server", err)
	}

	// Drain queued audit events before exit
	recorder.Close()

	logger.Info("Servers shutdown gracefully")
}
