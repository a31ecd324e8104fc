package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YelzhanWeb/chefmenu/internal/adapter/logger"
	"github.com/YelzhanWeb/chefmenu/internal/adapter/memory"
	"github.com/YelzhanWeb/chefmenu/internal/adapter/postgres"
	"github.com/YelzhanWeb/chefmenu/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/chefmenu/internal/adapter/redis"
	"github.com/YelzhanWeb/chefmenu/internal/adapter/storage"
	"github.com/YelzhanWeb/chefmenu/internal/adapter/telegram"
	"github.com/YelzhanWeb/chefmenu/internal/app/customer"
	"github.com/YelzhanWeb/chefmenu/internal/app/manager"
	"github.com/YelzhanWeb/chefmenu/internal/app/notify"
	"github.com/YelzhanWeb/chefmenu/internal/app/state"
	"github.com/YelzhanWeb/chefmenu/internal/config"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"

	amqpAdapter "github.com/YelzhanWeb/chefmenu/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/chefmenu/internal/adapter/http"
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", "", "Service mode: menu-service, notification-subscriber, migrate")
	configPath := flag.String("config", "config.yaml", "Path to YAML config")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	lgr := logger.NewWithWriter(*mode, os.Stdout, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Route to appropriate service
	switch *mode {
	case "menu-service":
		err = runMenuService(ctx, cfg, lgr)

	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, lgr)

	case "migrate":
		err = runMigrate(ctx, cfg, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}

	if err != nil {
		lgr.Error("service_failed", "Service stopped with error", "runtime", nil, err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config, lgr logger.Logger) (interfaces.KeyValueStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		applied, err := postgres.Migrate(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host":       cfg.Database.Host,
			"db":         cfg.Database.Database,
			"migrations": applied,
		})
		return postgres.NewKVStore(db), nil

	case config.BackendRedis:
		store, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		lgr.Info("redis_connected", "Connected to Redis", "startup", map[string]interface{}{
			"prefix": cfg.Redis.KeyPrefix,
		})
		return store, nil

	default:
		lgr.Info("memory_store", "Using in-memory storage, data is lost on restart", "startup", nil)
		return memory.NewKVStore(), nil
	}
}

func runMenuService(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	// Initialize storage
	kv, err := openStore(ctx, cfg, lgr)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer kv.Close()

	gateway := storage.NewGateway(kv, cfg.Storage.MenuKey, cfg.Storage.CartKey, lgr)
	store := state.Load(ctx, gateway, lgr)

	// Initialize messaging
	publisher := rabbitmq.NewDiscardPublisher()
	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			return err
		}
		defer mqConn.Close()

		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
			"host":     cfg.RabbitMQ.Host,
			"exchange": cfg.RabbitMQ.Exchange,
		})
		publisher = rabbitmq.NewPublisher(mqConn, cfg.RabbitMQ.Exchange)
	}

	// Initialize services
	managerService := manager.NewService(store, publisher, lgr)
	customerService := customer.NewService(store, publisher, lgr)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      httpAdapter.NewRouter(managerService, customerService, lgr),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	snap := store.Snapshot()
	lgr.Info("service_started", fmt.Sprintf("Menu Service started on port %d", cfg.HTTP.Port), "startup", map[string]interface{}{
		"port":    cfg.HTTP.Port,
		"backend": cfg.Storage.Backend,
		"dishes":  len(snap.Menu),
		"cart":    len(snap.Cart),
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

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	if !cfg.RabbitMQ.Enabled {
		return errors.New("notification-subscriber needs rabbitmq.enabled")
	}

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer mqConn.Close()

	// Telegram when configured, stdout otherwise
	notifier := notify.NewWriterNotifier(os.Stdout)
	if cfg.Telegram.Token != "" {
		notifier, err = telegram.NewNotifier(cfg.Telegram)
		if err != nil {
			return err
		}
	}

	consumer := rabbitmq.NewConsumer(mqConn, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue, cfg.RabbitMQ.Prefetch, lgr)
	notificationHandler := amqpAdapter.NewNotificationHandler(notify.NewService(notifier, lgr), lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", map[string]interface{}{
		"queue":    cfg.RabbitMQ.Queue,
		"telegram": cfg.Telegram.Token != "",
	})

	err = consumer.ConsumeMenuEvents(ctx, notificationHandler.HandleNotification)

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runMigrate(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := postgres.Migrate(ctx, db)
	if err != nil {
		return err
	}

	lgr.Info("migrations_applied", fmt.Sprintf("Applied %d migrations", len(applied)), "startup", map[string]interface{}{
		"migrations": applied,
	})
	return nil
}
