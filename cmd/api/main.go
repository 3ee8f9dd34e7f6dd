package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"database/sql"

	"github.com/Dan9191/cash-coach/internal/config"
	"github.com/Dan9191/cash-coach/internal/forecast"
	"github.com/Dan9191/cash-coach/internal/handler"
	"github.com/Dan9191/cash-coach/internal/integrations/nessie"
	"github.com/Dan9191/cash-coach/internal/integrations/statement"
	"github.com/Dan9191/cash-coach/internal/repository"
	"github.com/Dan9191/cash-coach/internal/scheduler"
	"github.com/Dan9191/cash-coach/internal/service"
	"github.com/Dan9191/cash-coach/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func newProvider(cfg *config.Config, repo *repository.Repository, logger *logrus.Logger) service.Provider {
	switch cfg.Provider {
	case config.ProviderNessie:
		return nessie.NewClient(nessie.Config{
			BaseURL:    cfg.NessieBase,
			Key:        cfg.NessieKey,
			Mode:       cfg.NessieMode,
			CustomerID: cfg.NessieCustomerID,
		}, logger)
	case config.ProviderStatement:
		return statement.NewProvider(cfg.StatementPath, logger)
	default:
		return repo
	}
}

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	opts, err := cfg.Forecast.Options()
	if err != nil {
		logger.Fatalf("Failed to build forecast options: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	provider := newProvider(cfg, repo, logger)
	svc := service.NewService(provider, repo, forecast.NewEngine(opts), logger, cfg)
	h := handler.NewHandler(svc, logger)
	r := handler.NewRouter(h, cfg)
	logger.WithFields(logrus.Fields{
		"provider": cfg.Provider,
		"horizon":  opts.HorizonDays,
		"taxonomy": opts.Taxonomy.Name,
	}).Info("Forecast service configured")

	if cfg.AlertSchedule != "" {
		sched, err := scheduler.New(cfg.AlertSchedule, svc, email.NewSender(cfg, logger), logger)
		if err != nil {
			logger.Fatalf("Invalid ALERT_SCHEDULE: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
