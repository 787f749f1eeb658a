package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"coursehub/api"
	"coursehub/auth"
	"coursehub/config"
	"coursehub/database"
	"coursehub/internal/handlers"
	"coursehub/internal/logging"
	"coursehub/internal/profile"
	"coursehub/internal/router"
	"coursehub/state"
	"coursehub/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer store.Close()
	log.Info("profile store ready", zap.String("driver", cfg.StoreDriver))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := api.New(cfg.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		api.WithLogger(log.Named("api")),
		api.WithMetrics(api.NewMetrics(reg)),
	)

	var uploader storage.Uploader
	if cfg.UploadsEnabled() {
		b2, err := storage.Init(ctx, cfg.B2KeyID, cfg.B2AppKey, cfg.B2Bucket)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		uploader = b2
		log.Info("submission uploads enabled", zap.String("bucket", cfg.B2Bucket))
	}

	var sealer state.Sealer
	if cfg.SessionKey != "" {
		c, err := auth.NewTokenCipher([]byte(cfg.SessionKey))
		if err != nil {
			return err
		}
		sealer = c
	}

	var csrfKey []byte
	if cfg.CSRFKey != "" {
		csrfKey = []byte(cfg.CSRFKey)
	} else {
		log.Warn("CSRF_KEY not set, form posts are not CSRF protected")
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: router.Router(router.Options{
			Registry:     profile.NewRegistry(store, client, sealer, log, profile.WithLimits(cfg.ProfileCacheSize, cfg.ProfileIdleTTL)),
			Handlers:     handlers.New(log.Named("web"), uploader),
			Log:          log,
			Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			CSRFKey:      csrfKey,
			CookieSecure: cfg.CookieSecure,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 server running", zap.String("addr", cfg.HTTPAddr), zap.String("api", cfg.APIBaseURL))
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

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config) (database.KV, error) {
	switch cfg.StoreDriver {
	case config.DriverRedis:
		return database.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisPrefix)
	case config.DriverMemory:
		return database.NewMemory(), nil
	default:
		return database.Init(cfg.StorePath)
	}
}
