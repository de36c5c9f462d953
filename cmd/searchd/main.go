package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/pedalfleet/searchd/internal/config"
	"github.com/pedalfleet/searchd/internal/domain"
	"github.com/pedalfleet/searchd/internal/events"
	bleveindex "github.com/pedalfleet/searchd/internal/index/bleve"
	"github.com/pedalfleet/searchd/internal/indexer"
	kvRedis "github.com/pedalfleet/searchd/internal/kv/redis"
	logpkg "github.com/pedalfleet/searchd/internal/logger"
	"github.com/pedalfleet/searchd/internal/mapper"
	"github.com/pedalfleet/searchd/internal/metrics"
	"github.com/pedalfleet/searchd/internal/search"
	"github.com/pedalfleet/searchd/internal/syncstate"
	chiTransport "github.com/pedalfleet/searchd/internal/transport/chi"
	"github.com/pedalfleet/searchd/internal/upstream"
	"github.com/pedalfleet/searchd/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchd",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
		zap.String("index_path", cfg.Index.Path),
	)

	// Sync-state store
	kvStore, err := kvRedis.NewStore(kvRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create redis store", zap.Error(err))
	}
	defer kvStore.Close()

	readyCtx, cancelReady := context.WithTimeout(
		context.Background(), time.Duration(cfg.Redis.ReadinessTimeout)*time.Second)
	err = kvStore.Ping(readyCtx)
	cancelReady()
	if err != nil {
		logger.Fatal("Redis not ready", zap.Error(err))
	}
	logger.Info("Connected to redis")

	// Search index, one namespace per kind
	indexStore, err := bleveindex.NewStore(bleveindex.Config{Path: cfg.Index.Path})
	if err != nil {
		logger.Fatal("Failed to open search index", zap.Error(err))
	}
	defer func() { _ = indexStore.Close() }()

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Upstream read clients share one HTTP transport
	httpc := upstream.NewHTTPClient(time.Duration(cfg.Upstream.TimeoutSec) * time.Second)
	userReader := upstream.NewReader[upstream.User](httpc, cfg.Upstream.UserURL, "users")
	bikeReader := upstream.NewReader[upstream.Bike](httpc, cfg.Upstream.BikeURL, "bikes")
	locationReader := upstream.NewReader[upstream.Location](httpc, cfg.Upstream.LocationURL, "locations")
	hubReader := upstream.NewReader[upstream.Hub](httpc, cfg.Upstream.HubURL, "hubs")

	// Per-kind index services and the orchestrator
	syncRepo := syncstate.New(kvStore, cfg.Redis.KeyPrefix)
	orchestrator := indexer.NewOrchestrator([]indexer.KindIndexer{
		indexer.New(domain.KindUser, userReader, indexStore, mapper.UserDocument, logger),
		indexer.New(domain.KindBike, bikeReader, indexStore, mapper.BikeDocument, logger),
		indexer.New(domain.KindLocation, locationReader, indexStore, mapper.LocationDocument, logger),
		indexer.New(domain.KindHub, hubReader, indexStore, mapper.HubDocument, logger),
	}, syncRepo, logger)

	// Event queue: HTTP enqueues, the embedded worker consumes
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addrs[0],
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	enqueuer := events.NewEnqueuer(redisOpt)
	defer func() { _ = enqueuer.Close() }()

	worker := events.NewServer(redisOpt, cfg.Events.Concurrency, logger)
	mux := events.NewMux(events.NewProcessor(orchestrator, logger))
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Fatal("Queue worker error", zap.Error(err))
		}
	}()

	// Search facade and HTTP server
	searchSvc := search.New(indexStore, logger)
	server := chiTransport.NewServer(searchSvc, orchestrator, syncRepo, enqueuer, kvStore, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(chiTransport.ScopeMiddleware())
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	worker.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
