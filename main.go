package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"almoner/config"
	"almoner/database"
	"almoner/handlers"
	"almoner/middleware"
	"almoner/segment"
	"almoner/services"
)

func main() {
	// .env is optional; real deployments use the config file or real env vars
	if err := godotenv.Load(); err == nil {
		logrus.Debug("loaded environment from .env")
	}

	// Load configuration
	cfg := config.GetConfig()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Production {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	// Custom groups persist outside the primary store; the registry only
	// sees the adapter interface
	handlers.InitGroupRegistry(segment.NewRegistry(segment.NewFileStore(cfg.GroupStorePath)))

	// Nightly maintenance (campaign totals, audit retention)
	maintenance := services.StartMaintenance()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Almoner",
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173,http://localhost:3000,http://localhost:8080",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// WebSocket route for the live dashboard (must be before other routes
	// to avoid middleware conflicts)
	app.Use("/api/dashboard/ws", handlers.DashboardWebSocketUpgrade)
	app.Get("/api/dashboard/ws", websocket.New(handlers.DashboardWebSocket))

	// API routes
	api := app.Group("/api")

	// Rate limiter for auth endpoints (5 requests per minute per IP)
	authLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many login attempts. Please try again later.",
			})
		},
	})

	// Public routes (with rate limiting on auth)
	api.Get("/setup/status", handlers.CheckSetup)
	api.Post("/setup", authLimiter, handlers.Setup)
	api.Post("/login", authLimiter, handlers.Login)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired())
	protected.Get("/user", handlers.GetCurrentUser)

	// Donor routes
	donors := protected.Group("/donors")
	donors.Get("/", handlers.ListDonors)
	donors.Post("/", handlers.CreateDonor)
	donors.Get("/:id", handlers.GetDonor)
	donors.Put("/:id", handlers.UpdateDonor)
	donors.Delete("/:id", handlers.DeleteDonor)

	// Campaign routes
	campaigns := protected.Group("/campaigns")
	campaigns.Get("/", handlers.ListCampaigns)
	campaigns.Post("/", handlers.CreateCampaign)
	campaigns.Get("/:id", handlers.GetCampaign)
	campaigns.Put("/:id", handlers.UpdateCampaign)
	campaigns.Delete("/:id", handlers.DeleteCampaign)

	// Donation routes
	donations := protected.Group("/donations")
	donations.Get("/", handlers.ListDonations)
	donations.Post("/", handlers.CreateDonation)
	donations.Put("/:id", handlers.UpdateDonation)
	donations.Delete("/:id", handlers.DeleteDonation)

	// Survey routes
	surveys := protected.Group("/surveys")
	surveys.Get("/questions", handlers.ListSurveyQuestions)
	surveys.Post("/questions", handlers.CreateSurveyQuestion)
	surveys.Put("/questions/:id", handlers.UpdateSurveyQuestion)
	surveys.Delete("/questions/:id", handlers.DeleteSurveyQuestion)
	surveys.Get("/responses", handlers.ListSurveyResponses)
	surveys.Post("/responses", handlers.CreateSurveyResponse)
	surveys.Delete("/responses/:id", handlers.DeleteSurveyResponse)

	// Group routes (reads for everyone, mutations gated below)
	groups := protected.Group("/groups")
	groups.Get("/", handlers.ListGroups)
	groups.Get("/:id", handlers.GetGroup)
	groups.Get("/:id/donors", handlers.ListGroupDonors)

	// AI drafting and email sending
	protected.Post("/ai/draft", handlers.DraftEmail)
	protected.Post("/email/send", handlers.SendEmail)

	// Admin-only routes
	admin := protected.Group("", middleware.AdminRequired(cfg.AdminEmailSet))

	// Custom group lifecycle (admin only)
	admin.Post("/groups", handlers.CreateGroup)
	admin.Put("/groups/:id", handlers.UpdateGroup)
	admin.Delete("/groups/:id", handlers.DeleteGroup)

	// Analytics dashboard (admin only)
	admin.Get("/dashboard", handlers.GetDashboard)

	// User management routes (admin only)
	users := admin.Group("/users")
	users.Get("/", handlers.ListUsers)
	users.Post("/", handlers.CreateUser)
	users.Put("/:id", handlers.UpdateUser)
	users.Delete("/:id", handlers.DeleteUser)

	// Settings routes (admin only)
	admin.Get("/settings", handlers.GetSettings)
	admin.Put("/settings", handlers.UpdateSettings)

	// Audit log routes (admin only)
	audit := admin.Group("/audit")
	audit.Get("/logs", handlers.ListAuditLogs)
	audit.Get("/actions", handlers.GetAuditActions)

	// Serve static files (frontend) in production
	if cfg.Production {
		app.Static("/", "./static")
		app.Get("/*", func(c *fiber.Ctx) error {
			return c.SendFile("./static/index.html")
		})
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logrus.Info("shutting down server")
		maintenance.Stop()
		if err := app.Shutdown(); err != nil {
			logrus.WithError(err).Error("error shutting down")
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logrus.WithField("addr", addr).Info("starting Almoner")
	if err := app.Listen(addr); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
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
