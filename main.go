package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giygas/safety-api/auth"
	"github.com/giygas/safety-api/catalog"
	"github.com/giygas/safety-api/catalog/postgres"
	"github.com/giygas/safety-api/config"
	"github.com/giygas/safety-api/data"
	"github.com/giygas/safety-api/handlers"
	"github.com/giygas/safety-api/health"
	"github.com/giygas/safety-api/interfaces"
	"github.com/giygas/safety-api/logging"
	"github.com/giygas/safety-api/safety"
	"github.com/giygas/safety-api/scheduler"
	"github.com/giygas/safety-api/server"
	"github.com/giygas/safety-api/validation"
)

func main() {
	seedPath := flag.String("seed", "", "load the catalog document at this path into PostgreSQL and exit")
	tokenUser := flag.String("issue-token", "", "print a bearer token for this user id and exit")
	tokenRole := flag.String("role", "patient", "role claim for -issue-token")
	tokenTTL := flag.Duration("ttl", 24*time.Hour, "lifetime of the token printed by -issue-token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	level := logging.ParseLevel(cfg.LogLevel)
	logging.InitLogger(logging.Options{
		Dir:            cfg.LogDir,
		Level:          level,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})
	defer logging.Close()

	switch {
	case *tokenUser != "":
		token, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, *tokenTTL).Issue(*tokenUser, *tokenRole)
		if err != nil {
			exit("Failed to issue token", err)
		}
		fmt.Println(token)
		return
	case *seedPath != "":
		if err := seed(cfg, *seedPath); err != nil {
			exit("Failed to seed catalog", err)
		}
		return
	}

	logging.Info("Configuration loaded",
		"env", cfg.Env.String(),
		"catalog_source", cfg.CatalogSource,
		"refresh_interval", cfg.CatalogRefreshInterval.String(),
	)

	source, err := newCatalogSource(cfg)
	if err != nil {
		exit("Failed to open catalog source", err)
	}

	store := data.NewDataContainer()
	sched := scheduler.NewScheduler(store, source, validation.NewCatalogValidator(), cfg.CatalogRefreshInterval)
	if err := sched.Start(); err != nil {
		exit("Failed to load catalog", err)
	}

	engine := safety.NewEngine(store)
	checker := health.NewHealthChecker(store, sched, cfg.CatalogRefreshInterval)
	handler := handlers.NewHTTPHandler(engine, store, validation.NewRequestValidator(), checker)
	srv := server.NewServer(cfg, handler, auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case sig := <-quit:
		logging.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			logging.Error("Server failed", "error", err)
		}
	}

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}

func newCatalogSource(cfg *config.Config) (interfaces.CatalogSource, error) {
	if cfg.CatalogSource != config.CatalogSourcePostgres {
		return catalog.NewFileSource(cfg.CatalogPath), nil
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.CatalogAutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			return nil, err
		}
	}
	return postgres.NewSource(db), nil
}

func seed(cfg *config.Config, path string) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required to seed the catalog")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	snap, err := catalog.NewFileSource(path).Load(ctx)
	if err != nil {
		return err
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := postgres.Migrate(db); err != nil {
		return err
	}
	return postgres.Seed(ctx, db, snap)
}

func exit(msg string, err error) {
	logging.Error(msg, "error", err)
	_ = logging.Close()
	os.Exit(1)
}
