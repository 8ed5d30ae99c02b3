package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/newsfeed/backend/internal/fanout"
	"github.com/anonto42/newsfeed/backend/internal/router"
	"github.com/anonto42/newsfeed/backend/internal/validators"
	"github.com/anonto42/newsfeed/backend/pkg/config"
	"github.com/anonto42/newsfeed/backend/pkg/firebase"
	"github.com/anonto42/newsfeed/backend/pkg/logger"
	"github.com/anonto42/newsfeed/backend/pkg/telemetry"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Env)
	if err != nil {
		zl.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	mdb := db.Mongo.Database(cfg.MongoDatabase)
	if err := router.Migrate(ctx, db.Postgres, mdb); err != nil {
		zl.Fatal("failed to migrate", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(registry)

	deps := router.Deps{
		Postgres:         db.Postgres,
		Mongo:            mdb,
		Redis:            db.Redis,
		Metrics:          metrics,
		Gatherer:         registry,
		Log:              zl,
		ServiceName:      cfg.ServiceName,
		JWTSecret:        cfg.JWTSecret,
		JWTTTL:           cfg.JWTTTL,
		TrendingCacheTTL: cfg.TrendingCacheTTL,
	}

	// Firebase login is optional; the interface stays nil without credentials
	if cfg.FirebaseCredentialsPath != "" {
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, zl)
		if err != nil {
			zl.Fatal("failed to initialize firebase", zap.Error(err))
		}
		deps.FirebaseAuth = app.AuthClient
	} else {
		zl.Warn("FIREBASE_CREDENTIALS_PATH not set, firebase login disabled")
	}

	retry := fanout.RetryPolicy{MaxAttempts: cfg.FanoutMaxAttempts, Backoff: 200 * time.Millisecond}

	var (
		pool     *fanout.WorkerPool
		consumer *fanout.KafkaConsumer
	)
	switch cfg.FanoutBackend {
	case "kafka":
		if len(cfg.KafkaBrokers) == 0 {
			zl.Fatal("FANOUT_BACKEND=kafka requires KAFKA_BROKERS")
		}
		deps.Queue = fanout.NewKafkaQueue(cfg.KafkaBrokers, cfg.KafkaFanoutTopic, metrics)
		consumer = fanout.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaFanoutTopic, cfg.KafkaGroupID, retry, zl, metrics)
	default:
		pool = fanout.NewWorkerPool(fanout.PoolConfig{
			Workers:   cfg.FanoutWorkers,
			QueueSize: cfg.FanoutQueueSize,
			Retry:     retry,
		}, zl, metrics)
		deps.Queue = pool
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, zl)

	// Setup routes and dependencies
	dispatcher := router.SetupRoutes(e, deps)

	consumerDone := make(chan struct{})
	if consumer != nil {
		go func() {
			defer close(consumerDone)
			if err := consumer.Run(ctx, dispatcher.HandleTask); err != nil {
				zl.Error("kafka consumer stopped", zap.Error(err))
			}
		}()
	} else {
		close(consumerDone)
		pool.Start(dispatcher.HandleTask)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(e, cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr), zap.String("fanout", cfg.FanoutBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		zl.Error("http shutdown", zap.Error(err))
	}
	// Drain after the server stops accepting requests so no new tasks arrive
	if err := deps.Queue.Close(sctx); err != nil {
		zl.Error("fanout queue close", zap.Error(err))
	}
	if consumer != nil {
		<-consumerDone
		if err := consumer.Close(); err != nil {
			zl.Error("kafka consumer close", zap.Error(err))
		}
	}
}
