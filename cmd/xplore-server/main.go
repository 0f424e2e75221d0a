package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ashlinpj/xplore/internal/config"
	"github.com/ashlinpj/xplore/internal/notify"
	"github.com/ashlinpj/xplore/internal/scheduler"
	"github.com/ashlinpj/xplore/internal/service"
	xminio "github.com/ashlinpj/xplore/internal/storage/minio"
	xmongo "github.com/ashlinpj/xplore/internal/storage/mongo"
	xhttp "github.com/ashlinpj/xplore/internal/transport/http"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting xplore-server", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	store, err := xmongo.New(dbCtx, cfg)
	dbCancel()
	if err != nil {
		log.Error("mongo_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("mongo_connected")

	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if cerr := store.Close(closeCtx); cerr != nil {
			log.Warn("mongo_close_failed", slog.String("err", cerr.Error()))
		}
	}()

	s3Ctx, s3Cancel := context.WithTimeout(rootCtx, 10*time.Second)
	media, err := xminio.New(s3Ctx, cfg)
	s3Cancel()
	if err != nil {
		log.Error("minio_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("minio_connected", "bucket", cfg.S3.Bucket)

	var notifier service.Notifier
	if len(cfg.Notify.WebhookURLs) > 0 {
		notifier = notify.New(cfg.Notify.WebhookURLs, cfg.Notify.Timeout)
		log.Info("webhook_notifier_enabled", "targets", len(cfg.Notify.WebhookURLs))
	}

	svc := service.New(store, media, notifier, *cfg)
	log.Info("service_initialized")

	sweeper := scheduler.New(svc, cfg.Lifecycle.SweepInterval, cfg.Lifecycle.SweepBootDelay, log)
	sweeper.Start(rootCtx)
	defer sweeper.Stop()
	log.Info("sweeper_started",
		"interval", cfg.Lifecycle.SweepInterval,
		"boot_delay", cfg.Lifecycle.SweepBootDelay,
	)

	// Служебный HTTP: liveness/readiness/metrics на отдельном порту.
	var ready int32 // 0 — not ready; 1 — ready
	opsAddr := cfg.Ops.Addr()

	opsMux := http.NewServeMux()
	opsMux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	opsMux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	opsMux.Handle("/metrics", promhttp.Handler())

	opsSrv := &http.Server{
		Addr:              opsAddr,
		Handler:           opsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("ops_listen_start", "addr", opsAddr)
		if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ops_serve_failed", slog.String("err", err.Error()))
		}
	}()

	apiHandler := xhttp.NewRouter(svc, xhttp.Options{
		Logger:     log,
		Timeout:    cfg.Timeouts.Service,
		BasePath:   cfg.HTTP.BasePath,
		JWTSecret:  cfg.Auth.JWTSecret,
		CronSecret: cfg.Auth.CronSecret,
	})

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           apiHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("server_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("ops_shutdown_incomplete", slog.String("err", err.Error()))
	}

	log.Info("service_stopped")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
