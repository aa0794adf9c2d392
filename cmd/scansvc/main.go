package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	configs "github.com/avvvet/scan-services/configs"
	nats "github.com/avvvet/scan-services/internal/nats"
	"github.com/avvvet/scan-services/internal/scansvc/broker"
	"github.com/avvvet/scan-services/internal/scansvc/config"
	"github.com/avvvet/scan-services/internal/scansvc/db"
	"github.com/avvvet/scan-services/internal/scansvc/handlers"
	"github.com/avvvet/scan-services/internal/scansvc/metrics"
	"github.com/avvvet/scan-services/internal/scansvc/service"
	"github.com/avvvet/scan-services/internal/scansvc/store"
)

const SERVICE_NAME = "scan"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scansvc",
		Short:         "Access control scan logging service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "init-db",
		Short: "Create the schema and seed sample employees, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initDB(cmd.Context())
		},
	})
	return cmd
}

func setup() (config.Config, error) {
	configs.LoadEnv(SERVICE_NAME)

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	configs.Logging(SERVICE_NAME+"_service", cfg.LogDir, cfg.LogLevel)
	return cfg, nil
}

func initDB(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := setup()
	if err != nil {
		return err
	}

	pool, err := db.Open(ctx, cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	db.ClosePool(pool)
	log.Info("database initialized successfully")
	return nil
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := setup()
	if err != nil {
		return err
	}
	instanceID := configs.CreateUniqueInstance(SERVICE_NAME)

	m := metrics.New()

	// NATS is optional, scans are still served without it
	var b *broker.Broker
	if cfg.NatsURL != "" {
		n, err := nats.Connect(cfg.NatsURL, cfg.NatsToken, SERVICE_NAME+"-"+instanceID)
		if err != nil {
			log.Errorf("Error: unable to connect to NATS server %v", err)
		} else {
			defer n.Close()
			b = broker.NewBroker(n.Conn, cfg.ScanSubject)
			log.Infof("NATS connection established successfully %s", n.Url)
		}
	}

	deps := handlers.Dependencies{
		Metrics:    m,
		InstanceID: instanceID,
		Health:     service.NewHealthService(nil, nil),
	}

	// pg connection; on failure the service stays up in degraded mode
	pool, err := db.Open(ctx, cfg.DBUrl)
	if err != nil {
		log.Errorf("Failed to initialize database, serving degraded: %v", err)
	} else {
		defer db.ClosePool(pool)
		log.Info("pg connection established successfully")

		employeeStore := store.NewEmployeeStore(pool)
		scanLogStore := store.NewScanLogStore(pool)
		deps.Services = service.NewServices(employeeStore, scanLogStore, b, m)
		deps.Health = service.NewHealthService(employeeStore, employeeStore)
	}

	// Setup router
	r := chi.NewRouter()
	c := configs.CORS(cfg.CORSOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(configs.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))
	}

	h := handlers.NewHandler(deps)
	h.SetRoutes(r)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	log.Infof("%s service running at %s (env=%s)", SERVICE_NAME, server.Addr, cfg.Env)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("ListenAndServe(): %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s service shutdown failed: %w", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
	return nil
}
