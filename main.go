package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"shuttleshop/internal/cart"
	"shuttleshop/internal/config"
	"shuttleshop/internal/handlers"
	"shuttleshop/internal/middleware"
	"shuttleshop/internal/models"
	"shuttleshop/internal/repositories"
	"shuttleshop/internal/services"
	"shuttleshop/pkg/logger"
	"shuttleshop/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Service: "shuttleshop",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	db, err := gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := autoMigrate(db); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Cart slots live in Redis; if it is unreachable carts degrade to
	// process memory so the storefront stays up.
	var cartStorage cart.Storage
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, falling back to in-memory carts", "error", err)
		cartStorage = cart.NewMemoryStorage()
	} else {
		cartStorage = cart.NewRedisStorage(redisClient)
	}
	cancelPing()

	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Error("failed to initialize RabbitMQ client", "error", err)
		os.Exit(1)
	}
	defer mqClient.Close()

	app := buildApp(cfg, db, cartStorage, mqClient, log)

	go func() {
		log.Info("starting RabbitMQ consumer for order events")
		err := mqClient.ConsumeOrderEvents(func(msg amqp.Delivery) error {
			log.Info("received order event", "tag", msg.DeliveryTag, "body", string(msg.Body))
			return nil
		})
		if err != nil {
			log.Error("order event consumer stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Info("starting server", "port", cfg.AppPort)
	serverErr := serve(app, cfg.AppPort)

	// Listener failures are handled here rather than in the serving
	// goroutine so the deferred cleanup above still runs.
	select {
	case err := <-serverErr:
		log.Error("server failed", "error", err)
	case <-quit:
		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("error during shutdown", "error", err)
		}
		log.Info("server gracefully stopped")
	}
}

// serve runs the listener in the background and reports its exit on the
// returned channel.
func serve(app *fiber.App, port string) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(port)
	}()
	return errCh
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Brand{}, &models.Product{},
		&models.ProductSize{}, &models.Coupon{}, &models.Order{}, &models.OrderItem{},
		&models.Review{}, &models.News{}, &models.Slide{}, &models.Setting{}, &models.Contact{},
	)
}

// buildApp wires repositories, services and handlers into a Fiber app.
// Everything is injected explicitly; there is no shared global state.
func buildApp(cfg config.Config, db *gorm.DB, cartStorage cart.Storage, mq rabbitmq.Publisher, log *slog.Logger) *fiber.App {
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	couponRepo := repositories.NewGORMCouponRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	brandRepo := repositories.NewGORMBrandRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	newsRepo := repositories.NewGORMNewsRepository(db)
	slideRepo := repositories.NewGORMSlideRepository(db)
	settingRepo := repositories.NewGORMSettingRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	productService := services.NewProductService(productRepo)
	couponService := services.NewCouponService(couponRepo)
	orderService := services.NewOrderService(orderRepo, mq, log)
	cartRegistry := cart.NewRegistry(cartStorage, log)

	authHandler := handlers.NewAuthHandler(authService, userRepo, cartRegistry, log)
	productHandler := handlers.NewProductHandler(productService, log)
	cartHandler := handlers.NewCartHandler(cartRegistry, productService, log)
	orderHandler := handlers.NewOrderHandler(orderService, couponService, cartRegistry, authService, log)
	catalogHandler := handlers.NewCatalogHandler(categoryRepo, brandRepo, log)
	couponHandler := handlers.NewCouponHandler(couponService, couponRepo, log)
	contentHandler := handlers.NewContentHandler(reviewRepo, newsRepo, slideRepo, settingRepo, contactRepo, authService, log)

	app := fiber.New()
	app.Use(fiberlogger.New())

	api := app.Group("/api")
	authHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api)
	cartHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)
	catalogHandler.RegisterRoutes(api)
	couponHandler.RegisterRoutes(api)
	contentHandler.RegisterRoutes(api)

	admin := api.Group("/admin", middleware.RequireAuth(authService), middleware.RequireAdmin())
	authHandler.RegisterAdminRoutes(admin)
	productHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	catalogHandler.RegisterAdminRoutes(admin)
	couponHandler.RegisterAdminRoutes(admin)
	contentHandler.RegisterAdminRoutes(admin)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}
