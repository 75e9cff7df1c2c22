package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"productapi/internal/config"
	"productapi/internal/database"
	"productapi/internal/handlers"
	"productapi/internal/repositories"
	"productapi/internal/services"
	"productapi/pkg/rabbitmq"
)

// application bundles the HTTP app with the resources it owns.
type application struct {
	app     *fiber.App
	closers []func() error
}

// newApplication wires store, broker, service and routes from cfg.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	a := &application{}

	// --- Initialize Repository ---
	var (
		productRepo repositories.ProductRepository
		ping        handlers.PingFunc
	)
	if cfg.Database.Driver == config.DriverMemory {
		productRepo = repositories.NewMemoryProductRepository()
		logger.Warn("using in-memory product store; data is lost on exit")
	} else {
		db, err := database.Open(cfg.Database, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { return database.Close(db) })
		productRepo = repositories.NewGORMProductRepository(db)
		ping = func(ctx context.Context) error { return database.Ping(ctx, db) }
		logger.Info("connected to database", "driver", cfg.Database.Driver)
	}

	// --- Initialize RabbitMQ Client ---
	var opts []services.Option
	if cfg.RabbitMQ.Enabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, logger)
		if err != nil {
			_ = a.close()
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		a.closers = append(a.closers, mqClient.Close)
		opts = append(opts, services.WithPublisher(mqClient))

		if cfg.RabbitMQ.LogEvents {
			if err := mqClient.Consume(rabbitmq.LogEvents(logger)); err != nil {
				_ = a.close()
				return nil, fmt.Errorf("failed to start RabbitMQ consumer: %w", err)
			}
		}
	} else {
		logger.Info("RABBITMQ_URL not set; product events are disabled")
	}

	// --- Initialize Service and Handlers ---
	productService := services.NewProductService(productRepo, logger, opts...)
	productHandler := handlers.NewProductHandler(productService, logger)
	healthHandler := handlers.NewHealthHandler(ping, logger)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:               "productapi",
		DisableStartupMessage: true,
		ErrorHandler:          handlers.ErrorHandler(logger),
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
	}))

	// --- Routes ---
	healthHandler.RegisterRoutes(app)
	productHandler.RegisterRoutes(app.Group("/api"))

	a.app = app
	return a, nil
}

// close releases owned resources in reverse order of acquisition.
func (a *application) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
