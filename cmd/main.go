package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/YelzhanWeb/carta/internal/adapter/email"
	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/adapter/memory"
	"github.com/YelzhanWeb/carta/internal/adapter/postgres"
	"github.com/YelzhanWeb/carta/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/carta/internal/app/availability"
	"github.com/YelzhanWeb/carta/internal/app/cart"
	"github.com/YelzhanWeb/carta/internal/app/catalog"
	"github.com/YelzhanWeb/carta/internal/app/checkout"
	"github.com/YelzhanWeb/carta/internal/app/company"
	"github.com/YelzhanWeb/carta/internal/app/notify"
	"github.com/YelzhanWeb/carta/internal/app/order"
	"github.com/YelzhanWeb/carta/internal/config"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"

	amqpAdapter "github.com/YelzhanWeb/carta/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/carta/internal/adapter/http"
)

func main() {
	app := &cli.App{
		Name:  "carta",
		Usage: "restaurant menu cart and WhatsApp ordering",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the YAML config file",
				EnvVars: []string{"CARTA_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "menu-service",
				Usage: "serve the cart, checkout and order HTTP API",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "port", Usage: "HTTP port, overrides http.port"},
				},
				Action: runMenuService,
			},
			{
				Name:  "notification-subscriber",
				Usage: "print order notifications from RabbitMQ and send order emails",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "prefetch", Value: 1, Usage: "RabbitMQ prefetch count"},
				},
				Action: runNotificationSubscriber,
			},
			{
				Name:  "order-feed",
				Usage: "print a kitchen ticket for every order in orders_queue",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "prefetch", Value: 1, Usage: "RabbitMQ prefetch count"},
				},
				Action: runOrderFeed,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations",
				Action: runMigrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func runMenuService(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("port") {
		cfg.HTTP.Port = c.Int("port")
	}

	lgr := logger.New("menu-service", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	// Connect to RabbitMQ
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	// Initialize repositories
	orderRepo := postgres.NewOrderRepository(db, cfg.Company.Location())

	var cartStorage interfaces.CartStorage
	switch cfg.Cart.Storage {
	case config.CartStorageMemory:
		cartStorage = memory.NewCartStorage()
	default:
		cartStorage = postgres.NewCartStorage(db)
	}

	productRepo := postgres.NewProductRepository(db)
	settings := settingsProvider(cfg, db)

	// Настройки можно менять только когда они хранятся у нас
	var settingsStore interfaces.SettingsStore
	if cfg.Company.SettingsSource != config.SettingsFromHTTP {
		settingsStore = postgres.NewSettingsStore(db)
	}

	// Initialize messaging
	publisher := rabbitmq.NewPublisher(mqConn)

	// Initialize services
	evaluator := availability.NewEvaluator(cfg.Company.Location())
	watcher := availability.NewWatcher(settings, evaluator, cfg.Company.RefreshInterval, lgr)
	watcher.Start(ctx)

	cartService := cart.NewService(cartStorage, lgr)
	go cartService.RunEviction(ctx, cfg.Cart.SweepInterval, cfg.Cart.IdleTimeout)

	catalogService := catalog.NewService(productRepo, lgr)
	companyService := company.NewService(settingsStore, watcher, lgr)
	checkoutService := checkout.NewService(cartService, watcher, catalogService, orderRepo, publisher, lgr)
	orderService := order.NewService(orderRepo, publisher, lgr)

	// Initialize HTTP handlers
	handler := httpAdapter.NewRouter(httpAdapter.Handlers{
		Cart:         httpAdapter.NewCartHandler(cartService, lgr),
		Checkout:     httpAdapter.NewCheckoutHandler(checkoutService, lgr),
		Availability: httpAdapter.NewAvailabilityHandler(watcher, lgr),
		Order:        httpAdapter.NewOrderHandler(orderService, lgr),
		Catalog:      httpAdapter.NewCatalogHandler(catalogService, lgr),
		Company:      httpAdapter.NewCompanyHandler(companyService, lgr),
		AdminToken:   cfg.HTTP.AdminToken,
	}, lgr)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Menu Service started on port %d", cfg.HTTP.Port), "startup", map[string]interface{}{
		"port":            cfg.HTTP.Port,
		"cart_storage":    cfg.Cart.Storage,
		"settings_source": cfg.Company.SettingsSource,
	})

	// Graceful shutdown
	go func() {
		<-ctx.Done()

		lgr.Info("shutdown_initiated", "Shutting down Menu Service", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
		return err
	}
	return nil
}

func runNotificationSubscriber(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	lgr := logger.New("notification-subscriber", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer mqConn.Close()

	// Initialize consumer
	consumer := rabbitmq.NewConsumer(mqConn, c.Int("prefetch"), lgr)

	// Initialize handlers
	printer := amqpAdapter.NewNotificationHandler(lgr, os.Stdout)
	handle := printer.HandleNotification

	if cfg.Email.Enabled() {
		// Письма требуют заказов и настроек из БД
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		defer db.Close()

		mailer := notify.NewService(
			email.NewBrevoClient(cfg.Email, nil),
			postgres.NewOrderRepository(db, cfg.Company.Location()),
			settingsProvider(cfg, db),
			cfg.Company.Email,
			lgr,
		)
		handle = func(ctx context.Context, body []byte) error {
			if err := printer.HandleNotification(ctx, body); err != nil {
				return err
			}
			return mailer.HandleNotification(ctx, body)
		}
	}

	lgr.Info("service_started", "Notification Subscriber started", "startup", map[string]interface{}{
		"email": cfg.Email.Enabled(),
	})

	// Start consuming notifications
	go func() {
		if err := consumer.ConsumeNotifications(ctx, handle); err != nil && ctx.Err() == nil {
			lgr.Error("consumer_error", "Error consuming notifications", "runtime", nil, err)
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
	return nil
}

func runOrderFeed(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	lgr := logger.New("order-feed", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn, c.Int("prefetch"), lgr)
	feed := amqpAdapter.NewOrderFeedHandler(lgr, os.Stdout)

	lgr.Info("service_started", "Order feed started", "startup", nil)

	if err := consumer.ConsumeOrders(ctx, feed.HandleOrder); err != nil && ctx.Err() == nil {
		lgr.Error("consumer_error", "Error consuming orders", "runtime", nil, err)
		return err
	}

	lgr.Info("shutdown_initiated", "Shutting down order feed", "shutdown", nil)
	return nil
}

func runMigrate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	lgr := logger.New("migrate", cfg.Log.Level)
	return postgres.Migrate(cfg.Database, lgr)
}

func settingsProvider(cfg *config.Config, db postgres.DB) interfaces.SettingsProvider {
	var settings interfaces.SettingsProvider
	switch cfg.Company.SettingsSource {
	case config.SettingsFromHTTP:
		settings = httpAdapter.NewSettingsClient(cfg.Company.SettingsURL, nil)
	default:
		settings = postgres.NewSettingsRepository(db)
	}
	return phoneFallback{provider: settings, phone: cfg.Company.WhatsappPhone}
}

// phoneFallback fills in the configured WhatsApp number when the settings
// source has none
type phoneFallback struct {
	provider interfaces.SettingsProvider
	phone    string
}

func (p phoneFallback) GetSettings(ctx context.Context) (domain.CompanySettings, error) {
	settings, err := p.provider.GetSettings(ctx)
	if err != nil {
		return settings, err
	}
	if settings.WhatsAppPhone == "" && p.phone != "" {
		settings.WhatsAppPhone = p.phone
	}
	return settings, nil
}
