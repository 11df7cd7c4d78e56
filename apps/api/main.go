package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	tenantdbhandler "github.com/zenGate-Global/palmyra-pool-provisioner/domains/tenantdb/be/handler"
	tenantdbprov "github.com/zenGate-Global/palmyra-pool-provisioner/domains/tenantdb/be/provisioning"
	tenantdbservice "github.com/zenGate-Global/palmyra-pool-provisioner/domains/tenantdb/be/service"
	platformlogging "github.com/zenGate-Global/palmyra-pool-provisioner/platform/go/logging"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15m"` // pool creation can take minutes
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "provisioner-api",
		Level:     cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pctx, err := tenantdbservice.LoadProvisioningContext()
	if err != nil {
		logger.Fatal("resolve provisioning settings", zap.Error(err))
	}

	clients, err := tenantdbprov.NewAzureClients(pctx.SubscriptionID)
	if err != nil {
		logger.Fatal("init azure clients", zap.Error(err))
	}

	svc := tenantdbservice.New(pctx, tenantdbservice.Deps{
		Locator:   tenantdbprov.NewLocator(clients, pctx, logger),
		Pools:     tenantdbprov.NewPoolManager(clients, pctx.ResourceGroup, logger),
		Databases: tenantdbprov.NewDatabaseManager(clients, pctx.ResourceGroup, logger),
		SQL:       tenantdbprov.NewMSSQLRunner(logger),
	}, logger)
	httpHandler := tenantdbhandler.New(svc, logger)

	rootRouter := chi.NewRouter()
	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(cfg.RequestTimeout),
	)
	rootRouter.Use(platformlogging.RequestLogger(logger))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rootRouter.Route("/api/v1", func(r chi.Router) {
		r.Post("/tenant-databases", httpHandler.ProvisionTenantDatabase)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting provisioner api", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
