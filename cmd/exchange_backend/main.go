package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/adapters/printer"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/core/services"
	"github.com/SscSPs/exchange_office_app/internal/handlers"
	"github.com/SscSPs/exchange_office_app/internal/platform/config"
	"github.com/SscSPs/exchange_office_app/internal/platform/metrics"
	"github.com/SscSPs/exchange_office_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/exchange_office_app/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Exchange Office API
// @version 1.0
// @description Point-of-sale backend for a currency exchange office.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.DBConnectTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector()
	if err := collector.Register(registry); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	dispatcher, err := newPrintDispatcher(cfg, collector, logger)
	if err != nil {
		return err
	}

	container, err := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), collector, dispatcher)
	if err != nil {
		return fmt.Errorf("failed to build services: %w", err)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := handlers.NewRouter(cfg, container, logger, collector, registry)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("print_driver", cfg.PrintDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newPrintDispatcher returns a nil interface when printing is disabled.
func newPrintDispatcher(cfg *config.Config, collector *metrics.Collector, logger *slog.Logger) (portssvc.PrintDispatcher, error) {
	switch cfg.PrintDriver {
	case config.PrintDriverHTTP:
		return printer.NewHTTPDispatcher(printer.HTTPConfig{
			AgentURL: cfg.PrintAgentURL,
			Timeout:  cfg.PrintTimeout,
		}, collector, logger), nil
	case config.PrintDriverSpool:
		d, err := printer.NewSpoolDispatcher(cfg.PrintSpoolDir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize spool printer: %w", err)
		}
		return d, nil
	case config.PrintDriverNone:
		logger.Warn("Printing is disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown print driver %q", cfg.PrintDriver)
	}
}

// runMigrations applies every pending migration through a temporary database/sql
// connection using the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
