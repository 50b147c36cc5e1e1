package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/daleel-sa/daleel-backend/database"
	"github.com/daleel-sa/daleel-backend/internal/config"
	"github.com/daleel-sa/daleel-backend/internal/handlers"
	"github.com/daleel-sa/daleel-backend/internal/jobs"
	"github.com/daleel-sa/daleel-backend/internal/routes"
	"github.com/daleel-sa/daleel-backend/internal/services"
	"github.com/daleel-sa/daleel-backend/internal/storage"
	"github.com/daleel-sa/daleel-backend/pkg/logger"
	"github.com/daleel-sa/daleel-backend/pkg/metrics"
)

func main() {
	log := logger.NewLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	var store storage.Store
	switch cfg.StorageBackend {
	case "memory":
		log.Warn("using in-memory storage, not for production")
		store = storage.NewMemoryStore()
	case "mongo":
		client, err := storage.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("failed to connect to MongoDB", "error", err)
		}
		defer client.Disconnect(ctx)
		store = storage.NewMongoStore(client, cfg.MongoDB)
		log.Info("using MongoDB storage", "database", cfg.MongoDB)
	default:
		db, err := database.Connect()
		if err != nil {
			log.Fatal("failed to connect to PostgreSQL", "error", err)
		}
		if err := db.AutoMigrate(&storage.SessionRow{}, &storage.BusinessRow{}); err != nil {
			log.Fatal("failed to migrate database", "error", err)
		}
		store = storage.NewDatabaseStore(db)
		log.Info("using PostgreSQL storage")
	}

	m := metrics.NewMetrics("daleel")

	twilioService, err := services.NewTwilioService(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize Twilio service", "error", err)
	}

	mediaStore, err := services.NewS3MediaStore(ctx, cfg.MediaBucket, cfg.MediaRegion, log)
	if err != nil {
		log.Fatal("failed to initialize media store", "error", err)
	}

	conversation := services.NewConversationService(store, twilioService, mediaStore, cfg.AdminNumber, log, m)

	reminderJob := jobs.NewReminderJob(store, twilioService, cfg.ReminderInterval, cfg.ReminderThreshold, log, m)
	reminderJob.Start()

	app := fiber.New(fiber.Config{
		AppName: "Daleel Backend v" + cfg.AppVersion,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "Daleel Backend",
			"version": cfg.AppVersion,
			"status":  "healthy",
			"storage": cfg.StorageBackend,
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	whatsappHandler := handlers.NewWhatsAppHandler(conversation, twilioService, log)
	routes.SetupRoutes(app, cfg, whatsappHandler)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		reminderJob.Stop()
		_ = app.Shutdown()
	}()

	log.Info("starting server", "port", cfg.Port, "storage", cfg.StorageBackend)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
