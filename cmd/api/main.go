package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sefazor/ticketgate-backend/internal/config"
	"github.com/sefazor/ticketgate-backend/internal/handler"
	"github.com/sefazor/ticketgate-backend/internal/middleware"
	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/sefazor/ticketgate-backend/internal/repository"
	"github.com/sefazor/ticketgate-backend/internal/service"
	"github.com/sefazor/ticketgate-backend/pkg/database"
	"github.com/sefazor/ticketgate-backend/pkg/email"
	"github.com/sefazor/ticketgate-backend/pkg/payment"
	"github.com/sefazor/ticketgate-backend/pkg/qrcode"
	"github.com/sefazor/ticketgate-backend/pkg/storage"
	"github.com/sefazor/ticketgate-backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg := config.LoadConfig()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	db := database.NewDatabase()

	if err := db.AutoMigrate(
		&models.User{},
		&models.SocialAccount{},
		&models.Event{},
		&models.EventSession{},
		&models.Registration{},
		&models.EventUnlock{},
		&models.EventPayout{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	socialRepo := repository.NewSocialAccountRepository(db)
	eventRepo := repository.NewEventRepository(db)
	regRepo := repository.NewRegistrationRepository(db)
	unlockRepo := repository.NewEventUnlockRepository(db)
	payoutRepo := repository.NewEventPayoutRepository(db)

	// Storage
	r2Storage, err := storage.NewCloudflareStorage(cfg)
	if err != nil {
		log.Fatal("Failed to initialize R2 storage:", err)
	}

	// External services
	emailService := email.NewEmailService()
	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey)
	qrService := qrcode.NewQRService(cfg.AppURL + "/events/")

	// Services
	authService := service.NewAuthService(userRepo, emailService)
	socialAuthService := service.NewSocialAuthService(cfg, userRepo, socialRepo)
	userService := service.NewUserService(userRepo)
	eventService := service.NewEventService(eventRepo, r2Storage)
	registrationService := service.NewRegistrationService(regRepo, eventRepo, userRepo, stripeService, emailService, cfg, zapLogger)
	paymentService := service.NewPaymentService(stripeService, regRepo, unlockRepo, zapLogger)
	registrantService := service.NewRegistrantService(regRepo, eventRepo, unlockRepo, payoutRepo, stripeService, emailService, cfg, zapLogger)
	payoutService := service.NewPayoutService(payoutRepo, regRepo, eventRepo, cfg, zapLogger)

	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, socialAuthService, userService, validator)
	eventHandler := handler.NewEventHandler(eventService, qrService, validator)
	registrationHandler := handler.NewRegistrationHandler(registrationService, paymentService, validator)
	paymentHandler := handler.NewPaymentHandler(paymentService, cfg, zapLogger)
	registrantHandler := handler.NewRegistrantHandler(registrantService, paymentService, validator)
	payoutHandler := handler.NewPayoutHandler(payoutService)

	app := fiber.New()

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AppURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Turnstile-Token",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Auth (public)
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/:provider", authHandler.SocialRedirect)
	auth.Get("/:provider/callback", authHandler.SocialCallback)

	// Public event routes. Dashboard registers before the :id wildcard so it
	// is not swallowed by it.
	api.Get("/events", eventHandler.PublicList)
	api.Get("/events/dashboard", middleware.AuthMiddleware(), eventHandler.GetDashboard)
	api.Get("/events/:id", eventHandler.GetEvent)
	api.Get("/events/:id/qr", eventHandler.EventQR)
	api.Post("/events/:id/register", middleware.OptionalAuthMiddleware(), registrationHandler.Register)
	api.Get("/events/:id/register/result", registrationHandler.RegisterResult)

	// Stripe webhook (public)
	api.Post("/payments/webhook", paymentHandler.HandleStripeWebhook)

	// Protected routes
	api.Use(middleware.AuthMiddleware())
	{
		user := api.Group("/user")
		user.Get("/profile", authHandler.GetProfile)
		user.Put("/profile", authHandler.UpdateProfile)

		events := api.Group("/events")
		events.Post("/", eventHandler.CreateEvent)
		events.Put("/:id", eventHandler.UpdateEvent)
		events.Delete("/:id", eventHandler.DeleteEvent)
		events.Post("/:id/avatar", eventHandler.UploadAvatar)
		events.Post("/:id/banner", eventHandler.UploadBanner)

		events.Get("/:id/registrants", registrantHandler.ListRegistrants)
		events.Post("/:id/registrants/unlock", registrantHandler.UnlockRegistrants)
		events.Get("/:id/registrants/unlock/confirm", registrantHandler.ConfirmUnlock)
		events.Post("/:id/registrants/email", registrantHandler.EmailRegistrants)

		events.Post("/:id/payouts", payoutHandler.RequestPayout)

		payouts := api.Group("/payouts")
		payouts.Get("/", payoutHandler.GetMyPayouts)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Fatal(app.Listen(":" + port))
}
