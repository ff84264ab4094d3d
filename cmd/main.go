package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"library_backend/internal/config"
	"library_backend/internal/handlers"
	"library_backend/internal/logger"
	"library_backend/internal/repository"
	"library_backend/internal/repository/db"
	"library_backend/internal/server"
	"library_backend/internal/service"

	_ "library_backend/docs"
)

const shutdownTimeout = 10 * time.Second

// @title        Library API
// @version      1.0
// @description  Catalog, accounts and loans of the library backend.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load configs/config.yml; LIBRARY_* env vars override it
	cfg, err := config.Load(os.Getenv("LIBRARY_CONFIG_DIR"))
	log := logger.Get(cfg.LogLevel)
	if err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	tokens, err := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, log)
	if err != nil {
		log.Fatalw("failed to init token service", "err", err)
	}

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, tokens, log)

	if cfg.Seed.Enabled {
		seed(context.Background(), cfg.Seed, service.NewSeeder(repos, services.Ledger, log), log)
	}

	apiHandler := handlers.NewHandler(services, log, handlers.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		StatsInterval:  cfg.StatsInterval,
	})

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg config.Config, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening database", "path", cfg.DBPath)
	return db.InitDB(cfg.DBPath)
}

// seed creates the bootstrap admin and, when enabled, the demo catalog.
// Failures are logged; the server still starts.
func seed(ctx context.Context, sc config.Seed, seeder *service.Seeder, log *logger.Logger) {
	if sc.AdminEmail == "" || sc.AdminPassword == "" {
		log.Warnw("seed_admin_skipped", "reason", "seed.admin.email or seed.admin.password not set")
	} else if _, err := seeder.EnsureAdmin(ctx, service.AdminAccount{
		Email:    sc.AdminEmail,
		Username: sc.AdminUsername,
		Name:     sc.AdminName,
		Password: sc.AdminPassword,
	}); err != nil {
		log.Errorw("seed_admin_failed", "err", err)
	}

	if sc.SampleData {
		if err := seeder.SeedSampleData(ctx, sc.AdminEmail); err != nil {
			log.Errorw("seed_sample_data_failed", "err", err)
		}
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
