// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/checkout"
	"github.com/your-org/bookstore-backend/internal/domain/session"
	"github.com/your-org/bookstore-backend/internal/infrastructure/catalogapi"
	"github.com/your-org/bookstore-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/bookstore-backend/internal/infrastructure/database/redis"
	"github.com/your-org/bookstore-backend/internal/infrastructure/kvstore"
	apihttp "github.com/your-org/bookstore-backend/internal/interfaces/http"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/routes"
	"github.com/your-org/bookstore-backend/internal/pkg/auth"
	"github.com/your-org/bookstore-backend/internal/pkg/email"
	"github.com/your-org/bookstore-backend/internal/pkg/feedback"
	"github.com/your-org/bookstore-backend/internal/pkg/logger"
	"github.com/your-org/bookstore-backend/internal/pkg/pdf"
)

// backend is the selected session store plus what the server needs from it
type backend struct {
	store   kvstore.Store
	checks  map[string]apihttp.HealthCheck
	limiter middleware.WindowCounter
	closers []func() error
}

func (b *backend) Close() {
	for _, closeFn := range b.closers {
		_ = closeFn()
	}
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, closer, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()

	if err := run(cfg, logr); err != nil {
		logr.WithError(err).Error("Server stopped with error")
		closer.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	log.WithFields(logrus.Fields{
		"name":    cfg.App.Name,
		"version": cfg.App.Version,
		"env":     cfg.App.Environment,
		"store":   cfg.Store.Driver,
	}).Info("🚀 Starting server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer be.Close()

	passwords := auth.NewPasswordManager(cfg.Security.BcryptCost)
	creds, err := session.NewCredentials(cfg.Auth, passwords)
	if err != nil {
		return fmt.Errorf("failed to load demo credentials: %w", err)
	}

	cues := feedback.NewLogger(log)
	sessions := session.NewManager(be.store, cues, creds, log)
	go sessions.Run(ctx, cfg.Session.SweepInterval, cfg.Session.IdleTimeout)

	catalogService := catalog.NewService(catalogapi.NewClient(cfg.Catalog, log), cfg.Catalog.ImageBaseURL, log)

	mailer, err := email.NewService(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create email service: %w", err)
	}

	var receipts checkout.ReceiptRenderer
	if cfg.PDF.Enabled {
		renderer, err := pdf.NewService(cfg)
		if err != nil {
			return fmt.Errorf("failed to create receipt renderer: %w", err)
		}
		receipts = renderer
	}

	checkoutService := checkout.NewService(cfg.Checkout, mailer, receipts, cues, log)

	server := apihttp.NewServer(cfg, apihttp.Options{
		Dependencies: routes.Dependencies{
			Config:   cfg,
			Catalog:  catalogService,
			Checkout: checkoutService,
			Sessions: sessions,
			JWT:      auth.NewJWTManager(cfg),
		},
		RateLimiter:  be.limiter,
		HealthChecks: be.checks,
		Logger:       log,
	})

	log.Info("✅ All systems operational!")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("Failed to shutdown HTTP server gracefully")
	}
	checkoutService.Wait()

	log.Info("✅ Server shutdown completed")
	return nil
}

// openBackend connects the configured session store
func openBackend(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*backend, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn("Using in-memory session store; state is lost on restart")
		return &backend{store: kvstore.NewMemory(cfg.Store.TTL)}, nil

	case config.StoreDriverRedis:
		client, err := redis.NewConnection(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		if err := client.Health(ctx); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis health check failed: %w", err)
		}
		return &backend{
			store:   kvstore.NewRedis(client, cfg.Store.TTL),
			checks:  map[string]apihttp.HealthCheck{"redis": client.Health},
			limiter: client,
			closers: []func() error{client.Close},
		}, nil

	case config.StoreDriverPostgres:
		conn, err := postgres.NewConnection(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := conn.Health(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("database health check failed: %w", err)
		}

		// Run database migrations
		migration := postgres.NewMigration(conn.GetDB(), log)
		if err := migration.RunAutoMigrations(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
		if err := migration.CreateIndexes(); err != nil {
			log.WithError(err).Warn("Index creation failed")
		}
		if cfg.IsDevelopment() {
			if err := migration.GetTableInfo(); err != nil {
				log.WithError(err).Warn("Could not read table info")
			}
		}

		return &backend{
			store:   kvstore.NewPostgres(conn.GetDB(), cfg.Store.TTL),
			checks:  map[string]apihttp.HealthCheck{"postgres": conn.Health},
			closers: []func() error{conn.Close},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
