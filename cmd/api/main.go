package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/tablepos/api/routes"
	"github.com/angelmondragon/tablepos/internal/cart"
	"github.com/angelmondragon/tablepos/internal/checkout"
	"github.com/angelmondragon/tablepos/internal/history"
	"github.com/angelmondragon/tablepos/internal/payments"
	"github.com/angelmondragon/tablepos/internal/tables"
	"github.com/angelmondragon/tablepos/pkg/config"
	"github.com/angelmondragon/tablepos/pkg/events"
	"github.com/angelmondragon/tablepos/pkg/instance"
	"github.com/angelmondragon/tablepos/pkg/logger"
	"github.com/angelmondragon/tablepos/pkg/metrics"
	"github.com/angelmondragon/tablepos/pkg/posapi"
	"github.com/angelmondragon/tablepos/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Fields:      map[string]any{"store": cfg.App.StoreName},
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	store, closeStore, err := storage.Open(ctx, cfg, logg)
	if err != nil {
		return err
	}
	closers = append(closers, closeStore)

	backend, err := posapi.NewClient(cfg.Backend.BaseURL,
		posapi.WithToken(cfg.Backend.Token),
		posapi.WithTimeout(cfg.Backend.Timeout),
	)
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.Events.Enabled() {
		natsPublisher, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.OrderSubject, cfg.App.StoreName)
		if err != nil {
			return err
		}
		publisher = natsPublisher
	}
	closers = append(closers, publisher.Close)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	keys := storage.Keys{Namespace: cfg.Storage.Namespace}
	carts := cart.NewRegistry(store, keys, logg)
	tableCache := tables.NewCache(store, keys)

	historyService, err := history.NewService(store, keys, cfg.POS.HistoryLimit, logg)
	if err != nil {
		return err
	}

	checkoutService, err := checkout.NewService(checkout.Deps{
		Carts:          carts,
		Backend:        backend,
		Tables:         tables.NewResolver(tableCache, cfg.POS.DefaultTableID, logg),
		History:        historyService,
		Publisher:      publisher,
		Metrics:        metrics.NewCheckoutMetrics(reg),
		Logger:         logg,
		DefaultChannel: cfg.POS.DefaultChannel,
	})
	if err != nil {
		return err
	}

	paymentsService, err := payments.NewService(backend)
	if err != nil {
		return err
	}
	poller := payments.NewPoller(
		paymentsService,
		cfg.Payments.PollInterval,
		cfg.Payments.PollTimeout,
		metrics.NewPaymentMetrics(reg),
		logg,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"storage":  cfg.Storage.Driver,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			store,
			reg,
			carts,
			tableCache,
			checkoutService,
			historyService,
			paymentsService,
			poller,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logg.Info(gctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info(ctx, "api server shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
