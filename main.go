// main.go
package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"codeclash/database"
	"codeclash/handlers"
	"codeclash/handlers/admin"
	"codeclash/middleware"
	"codeclash/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Broadcast hub and engine services
	hub := handlers.NewHub()
	handlers.InitHandlers(database.GetDB(), hub, getEnvInt("VIOLATION_THRESHOLD", services.DefaultViolationThreshold))

	// Optional duration-expiry sweeper; ends overdue challenges through the
	// same transition the admin console uses.
	if getEnv("AUTO_END_ENABLED", "false") == "true" {
		sweeper := services.NewSweeperService(database.GetDB(), handlers.Sessions())
		sweeper.Start()
		defer sweeper.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB - code buffers are text
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.FiberRateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Participant join with stricter rate limiting (access codes are the
	// attack surface here)
	api.Post("/join", middleware.FiberAuthRateLimitMiddleware(), handlers.Join)

	// Participant routes (require participant token)
	api.Get("/me", middleware.ParticipantAuthMiddleware, handlers.Me)
	api.Put("/code", middleware.ParticipantAuthMiddleware, handlers.UpdateCode)
	api.Post("/submit", middleware.ParticipantAuthMiddleware, handlers.Submit)
	api.Post("/violations",
		middleware.FiberViolationRateLimitMiddleware(),
		middleware.ParticipantAuthMiddleware,
		handlers.ReportViolation)
	api.Get("/preview", middleware.ParticipantAuthMiddleware, handlers.SelfPreview)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", middleware.FiberAuthRateLimitMiddleware(), admin.Login)
	adminGroup.Post("/logout", admin.Logout)

	// Protected admin routes
	adminProtected := adminGroup.Group("")
	adminProtected.Use(middleware.AdminAuthMiddleware)
	adminProtected.Get("/verify", admin.VerifyToken)

	// Admin challenge management
	adminProtected.Get("/challenges", admin.GetChallenges)
	adminProtected.Post("/challenges", admin.CreateChallenge)
	adminProtected.Get("/challenges/:id", admin.GetChallenge)
	adminProtected.Delete("/challenges/:id", admin.DeleteChallenge)
	adminProtected.Post("/challenges/:id/teams", admin.AssignTeams)

	// Lifecycle actions
	adminProtected.Post("/challenges/:id/start", admin.StartChallenge)
	adminProtected.Post("/challenges/:id/pause", admin.PauseChallenge)
	adminProtected.Post("/challenges/:id/resume", admin.ResumeChallenge)
	adminProtected.Post("/challenges/:id/end", admin.EndChallenge)

	// Monitoring and judging
	adminProtected.Get("/challenges/:id/monitor", admin.GetMonitor)
	adminProtected.Get("/challenges/:id/results", admin.GetResults)
	adminProtected.Get("/participants/:id/preview", admin.PreviewParticipant)

	// Live updates: one websocket per challenge, shared by participant
	// editors and admin monitors
	app.Use("/ws", handlers.UpgradeGuard)
	app.Get("/ws/challenges/:id", middleware.SessionAuthMiddleware, websocket.New(handlers.LiveSocket(hub)))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	// Start HTTP server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("🎯 Violation threshold: %d", getEnvInt("VIOLATION_THRESHOLD", services.DefaultViolationThreshold))
	log.Printf("🌐 WebSocket available at ws://localhost:%s/ws/challenges/:id", port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
