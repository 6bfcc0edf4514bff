// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal registry
// packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"easel/internal/audit"
	httpapi "easel/internal/http"
	"easel/internal/platform/config"
	"easel/internal/platform/httpserver"
	"easel/internal/platform/logger"
	platformredis "easel/internal/platform/redis"
	"easel/internal/registry"
	"easel/internal/registry/cache"
	registrymetrics "easel/internal/registry/metrics"
	"easel/internal/registry/service"
	"easel/internal/registry/store/memory"
	"easel/internal/registry/store/postgres"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage backend: postgres when configured, in-memory otherwise.
	var (
		store service.Store
		tx    service.StoreTx
	)
	var healthChecks []httpapi.HealthCheck
	if cfg.DatabaseURL != "" {
		pgStore, db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres setup failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = pgStore
		tx = postgres.NewTx(db)
		healthChecks = append(healthChecks, db.PingContext)
		log.Info("using postgres store")
	} else {
		memStore := memory.New()
		store = memStore
		tx = memory.NewTx(memStore)
		log.Info("using in-memory store")
	}

	// Audit sink: kafka when brokers are configured, in-memory otherwise.
	var publisher service.AuditPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
		if err != nil {
			log.Error("kafka setup failed", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		if err := kafkaPublisher.EnsureTopic(ctx, 1, 1); err != nil {
			log.Error("kafka topic setup failed", "error", err)
			os.Exit(1)
		}
		publisher = kafkaPublisher
		log.Info("audit events going to kafka", "topic", cfg.Kafka.AuditTopic)
	} else {
		publisher = audit.NewPublisher(audit.NewInMemoryStore())
		log.Info("audit events kept in memory")
	}

	// Permission gate: static operator token and, when a signing key is
	// configured, JWT bearer tokens carrying the admin role claim.
	authorizers := []service.Authorizer{}
	if cfg.AdminToken != "" {
		authorizers = append(authorizers, service.NewStaticTokenAuthorizer(cfg.AdminToken))
	}
	if cfg.JWTSigningKey != "" {
		authorizers = append(authorizers, service.NewJWTAuthorizer(cfg.JWTSigningKey))
	}
	if len(authorizers) == 0 {
		log.Error("no authorizer configured: set EASEL_ADMIN_TOKEN or EASEL_JWT_SIGNING_KEY")
		os.Exit(1)
	}
	authz := service.NewMultiAuthorizer(authorizers...)

	metrics := registrymetrics.New()

	opts := []service.Option{
		service.WithLogger(log),
		service.WithAuditPublisher(publisher),
		service.WithMetrics(metrics),
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis setup failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, service.WithCIDCache(cache.NewRedisCIDCache(redisClient)))
		healthChecks = append(healthChecks, redisClient.Health)
		log.Info("current-cid cache enabled")
	}

	svc, err := registry.NewService(store, tx, authz, service.Limits{
		MaxTraitsPerCall: cfg.MaxTraitsPerCall,
		CIDLength:        cfg.CIDLength,
	}, opts...)
	if err != nil {
		log.Error("registry setup failed", "error", err)
		os.Exit(1)
	}

	h := registry.NewHandler(svc, log, metrics)
	router := httpapi.NewRouter(h, httpapi.NewHealthHandler(healthChecks...))
	srv := httpserver.New(cfg.Addr, router)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting easel", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
