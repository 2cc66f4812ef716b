package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"eventgate/internal/audit"
	"eventgate/internal/audit/kafka"
	eventhandler "eventgate/internal/event/handler"
	eventmetrics "eventgate/internal/event/metrics"
	eventservice "eventgate/internal/event/service"
	eventstore "eventgate/internal/event/store"
	jwttoken "eventgate/internal/jwt_token"
	"eventgate/internal/platform/config"
	"eventgate/internal/platform/httpserver"
	"eventgate/internal/platform/logger"
	"eventgate/internal/platform/metrics"
	"eventgate/internal/platform/postgres"
	"eventgate/internal/platform/redis"
	"eventgate/internal/platform/tracing"
	"eventgate/internal/role"
	sessionhandler "eventgate/internal/session/handler"
	"eventgate/internal/session/lockout"
	sessionmetrics "eventgate/internal/session/metrics"
	sessionmodels "eventgate/internal/session/models"
	sessionservice "eventgate/internal/session/service"
	"eventgate/internal/session/store/account"
	"eventgate/internal/session/store/revocation"
	httptransport "eventgate/internal/transport/http"
)

const (
	serviceName       = "eventgate"
	tokenIssuer       = "eventgate"
	tokenAudience     = "eventgate-api"
	trlSweepInterval  = time.Minute
	auditOutboxBuffer = 1024
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsDevKey() {
		log.Warn("using the development JWT signing key; set JWT_SIGNING_KEY in production")
	}

	shutdownTracing, err := tracing.Setup(ctx, serviceName, cfg.OTELEnabled, cfg.OTELEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	health := map[string]httptransport.HealthCheck{}

	resolver := role.NewResolver(cfg.PrivilegedEmailSuffixes...)

	events, accounts, closeDB, err := buildStores(ctx, cfg, log, health)
	if err != nil {
		return err
	}
	defer closeDB()

	revocations, lockouts, closeRedis, err := buildRedisStores(ctx, cfg, log, health, g, gctx)
	if err != nil {
		return err
	}
	defer closeRedis()

	publisher, closeAudit, err := buildAudit(ctx, cfg, log, g, gctx)
	if err != nil {
		return err
	}
	defer closeAudit()

	sessions := sessionservice.New(accounts, revocations,
		jwttoken.NewJWTService(cfg.JWTSigningKey, tokenIssuer, tokenAudience),
		sessionservice.WithLogger(log),
		sessionservice.WithAuditPublisher(publisher),
		sessionservice.WithMetrics(sessionmetrics.New()),
		sessionservice.WithSessionTTL(cfg.SessionTTL),
		sessionservice.WithLoginGuard(lockout.New(lockouts,
			lockout.WithPolicy(cfg.Lockout),
			lockout.WithLogger(log),
		)),
	)
	// Role is re-derived on every session change and never cached.
	unsubscribe := sessions.Subscribe(func(change sessionmodels.Change) {
		profile := resolver.Describe(change.Identity)
		log.Info("session changed",
			"kind", string(change.Kind),
			"user_id", change.Identity.UserID,
			"role", profile.Role.String(),
		)
	})
	defer unsubscribe()

	directory := eventservice.New(events, resolver,
		eventservice.WithLogger(log),
		eventservice.WithAuditPublisher(publisher),
		eventservice.WithMetrics(eventmetrics.New()),
		eventservice.WithSnapshotTTL(cfg.SnapshotTTL),
	)
	if err := directory.Refresh(ctx); err != nil {
		// Reads retry the load lazily.
		log.Warn("initial event load failed", "error", err)
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger:  log,
		Metrics: metrics.New(),
		Handlers: []httptransport.Registrar{
			sessionhandler.New(sessions, resolver, directory, log),
			eventhandler.New(directory, sessions, resolver, log),
		},
		Health: health,
	})
	srv := httpserver.New(cfg.Addr, router)

	g.Go(func() error {
		log.Info("starting eventgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func buildStores(
	ctx context.Context,
	cfg config.Server,
	log *slog.Logger,
	health map[string]httptransport.HealthCheck,
) (eventservice.Store, sessionservice.AccountStore, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL not set; using in-memory stores")
		return eventstore.NewInMemory(), account.NewInMemoryStore(), func() {}, nil
	}

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	health["postgres"] = db.PingContext
	closeDB := func() {
		if err := db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			log.Warn("closing database failed", "error", err)
		}
	}
	return eventstore.NewPostgres(db), account.NewPostgres(db), closeDB, nil
}

// buildRedisStores backs the revocation list and login lockouts with Redis
// when configured, otherwise with process memory.
func buildRedisStores(
	ctx context.Context,
	cfg config.Server,
	log *slog.Logger,
	health map[string]httptransport.HealthCheck,
	g *errgroup.Group,
	gctx context.Context,
) (sessionservice.TokenRevocationList, lockout.Store, func(), error) {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, nil, err
	}
	if client == nil {
		log.Info("REDIS_URL not set; using in-memory revocation list and login lockouts")
		trl := revocation.NewInMemoryTRL()
		g.Go(func() error { return trl.StartCleanup(gctx, trlSweepInterval) })
		return trl, lockout.NewInMemoryStore(), func() {}, nil
	}

	health["redis"] = client.Health
	closeRedis := func() {
		if err := client.Close(); err != nil {
			log.Warn("closing redis failed", "error", err)
		}
	}
	return revocation.NewRedisTRL(client.Client), lockout.NewRedisStore(client.Client), closeRedis, nil
}

func buildAudit(
	ctx context.Context,
	cfg config.Server,
	log *slog.Logger,
	g *errgroup.Group,
	gctx context.Context,
) (*audit.Publisher, func(), error) {
	store := audit.NewInMemoryStore()
	if !cfg.Kafka.Enabled() {
		return audit.NewPublisher(store, audit.WithPublisherLogger(log)), func() {}, nil
	}

	sink, err := kafka.NewSink(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
	if err != nil {
		return nil, nil, err
	}
	if err := sink.EnsureTopic(ctx, 1, 1); err != nil {
		log.Warn("could not ensure audit topic", "topic", cfg.Kafka.AuditTopic, "error", err)
	}

	outbox := make(chan audit.Event, auditOutboxBuffer)
	worker := audit.NewWorker(sink, outbox, log)
	g.Go(func() error { return worker.Run(gctx) })

	publisher := audit.NewPublisher(store, audit.WithOutbox(outbox), audit.WithPublisherLogger(log))
	log.Info("forwarding audit events to kafka", "topic", cfg.Kafka.AuditTopic)
	return publisher, sink.Close, nil
}
