package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/config"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/notify"
	notifykafka "github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/notify/kafka"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/service"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/storage"
	fsmongo "github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/storage/mongo"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/storage/rediscache"
	feedhttp "github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/transport/http"
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
	log.Info("starting feed-service", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	mongoStore, err := fsmongo.New(dbCtx, cfg)
	dbCancel()
	if err != nil {
		log.Error("mongo_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	log.Info("mongo_connected")

	// Опциональный write-through кэш поверх Mongo.
	var store storage.Storage = mongoStore
	if cfg.Cache.Addr != "" {
		cacheCtx, cacheCancel := context.WithTimeout(rootCtx, 5*time.Second)
		cached, err := rediscache.New(cacheCtx, mongoStore, cfg)
		cacheCancel()
		if err != nil {
			log.Error("redis_connect_failed", slog.String("err", err.Error()))
			rootCancel()
			_ = mongoStore.Close(context.Background())
			os.Exit(1)
		}
		store = cached
		log.Info("redis_cache_enabled", "addr", cfg.Cache.Addr)
	}

	// Приёмник уведомлений: Kafka, либо лог-заглушка без внешнего брокера.
	var sink notify.Sink
	if cfg.Kafka.Brokers != "" {
		producer, err := notifykafka.New(cfg)
		if err != nil {
			log.Error("kafka_connect_failed", slog.String("err", err.Error()))
			rootCancel()
			_ = store.Close(context.Background())
			os.Exit(1)
		}
		sink = producer
		log.Info("kafka_sink_enabled", "topic", cfg.Kafka.Topic)
	} else {
		sink = notify.LogSink{Log: log}
		log.Info("kafka_disabled_using_log_sink")
	}

	dispatcher := notify.New(log, sink, cfg.Notify.Buffer)

	svc := service.New(store, mongoStore, dispatcher, *cfg)
	log.Info("service_initialized")

	// Отдельный слушатель readiness/liveness/metrics.
	var ready int32 // 0 — not ready; 1 — ready
	metricsAddr := cfg.Metrics.Addr()

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	mux.Handle("/metrics", promhttp.Handler())

	metricsSrv := &http.Server{
		Addr:              metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("metrics_listen_start", "addr", metricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics_serve_failed", slog.String("err", err.Error()))
		}
	}()

	// Основной REST API.
	router := feedhttp.NewRouter(svc, feedhttp.Options{
		Logger:  log,
		Timeout: cfg.Timeouts.Service,
	})

	apiAddr := cfg.HTTP.Addr()
	apiSrv := &http.Server{
		Addr:              apiAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	atomic.StoreInt32(&ready, 1)

	serveErrCh := make(chan error, 1)
	go func() {
		log.Info("http_listen_start", slog.String("addr", apiAddr))
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
	}
	shutdownCancel()

	_ = metricsSrv.Shutdown(context.Background())

	// Дренируем очередь уведомлений перед закрытием приёмника.
	if err := dispatcher.Close(); err != nil {
		log.Warn("dispatcher_close_failed", slog.String("err", err.Error()))
	}
	if err := sink.Close(); err != nil {
		log.Warn("sink_close_failed", slog.String("err", err.Error()))
	}

	rootCancel()
	_ = store.Close(context.Background())

	log.Info("service_stopped")
	os.Exit(0)
}

// setupLogger — текстовый логгер в local, JSON в dev/prod.
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
