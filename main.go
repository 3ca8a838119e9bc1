package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"usermgmt/internal/handlers"
	"usermgmt/internal/middleware"
	"usermgmt/internal/models"
	"usermgmt/internal/repositories"
	"usermgmt/internal/services"
	"usermgmt/pkg/mailqueue"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	// Set up Viper to read configuration from environment variables or a file
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "") // empty DSN runs on the in-memory repository
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("RABBITMQ_URL", "") // empty URL skips email dispatch
	viper.SetDefault("JWT_SECRET", "change_me_in_production")
	viper.SetDefault("EMAIL_DISPATCH_REQUIRED", false)
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")
	databaseDSN := viper.GetString("DATABASE_DSN")
	dbDriver := viper.GetString("DB_DRIVER")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")
	jwtSecret := viper.GetString("JWT_SECRET")

	// --- Initialize Repository ---
	userRepo, err := openUserRepository(dbDriver, databaseDSN)
	if err != nil {
		log.Fatalf("Failed to initialize user repository: %v", err)
	}

	// --- Initialize Mail Queue Client ---
	var mqClient *mailqueue.Client
	var mailer services.EmailSender
	if rabbitMQURL != "" {
		mqClient, err = mailqueue.NewClient(mailqueue.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize mail queue client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
		mailer = mqClient
	} else {
		log.Println("RABBITMQ_URL is not set; verification emails will be skipped")
	}

	// --- Initialize Service ---
	userService := services.NewUserService(userRepo, mailer, jwtSecret)
	userService.RequireEmailDispatch(viper.GetBool("EMAIL_DISPATCH_REQUIRED"))

	// --- Initialize Handler ---
	userHandler := handlers.NewUserHandler(userService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	// Group routes under /api/v1
	apiV1 := app.Group("/api/v1")

	// Public authentication routes
	userHandler.RegisterRoutes(apiV1)

	// Protected user routes (require JWT authentication)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(userService))
	userHandler.RegisterProtectedRoutes(protectedRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start Mail Queue Consumer in a Goroutine ---
	// A real deployment would run an SMTP worker here; this consumer logs the
	// queued verification emails and acknowledges them.
	if mqClient != nil {
		go func() {
			log.Println("Starting mail queue consumer...")
			messageHandler := func(msg amqp.Delivery) error {
				var email mailqueue.VerificationEmail
				if err := json.Unmarshal(msg.Body, &email); err != nil {
					return err
				}
				log.Printf("Delivering verification email to %s (tag: %d)", email.Email, msg.DeliveryTag)
				return nil // Return nil to acknowledge
			}
			if consumerErr := mqClient.ConsumeEmailEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start mail queue consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	// Shutdown Fiber app
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	// Mail queue connection close is handled by defer in main
	log.Println("Server gracefully stopped")
}

// openUserRepository picks the persistence backend from configuration: an
// in-memory repository when no DSN is set, otherwise GORM over SQLite or
// PostgreSQL with the schema auto-migrated.
func openUserRepository(driver, dsn string) (repositories.UserRepository, error) {
	if dsn == "" {
		log.Println("DATABASE_DSN is not set; using in-memory user repository")
		return repositories.NewMemoryUserRepository(), nil
	}

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, err
	}
	return repositories.NewGORMUserRepository(db), nil
}
