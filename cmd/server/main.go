// Command server runs the compliance assessment API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"conform/internal/assessment/adapters"
	assessmenthandler "conform/internal/assessment/handler"
	assessmentmetrics "conform/internal/assessment/metrics"
	assessmentservice "conform/internal/assessment/service"
	assessmentstore "conform/internal/assessment/store"
	"conform/internal/compliance"
	compliancemetrics "conform/internal/compliance/metrics"
	"conform/internal/platform/config"
	"conform/internal/platform/httpserver"
	"conform/internal/platform/logger"
	platformredis "conform/internal/platform/redis"
	"conform/internal/platform/token"
	projecthandler "conform/internal/project/handler"
	projectservice "conform/internal/project/service"
	projectstore "conform/internal/project/store"
	httptransport "conform/internal/transport/http"
	"conform/pkg/platform/audit"
	"conform/pkg/platform/audit/publisher"
	auditmemory "conform/pkg/platform/audit/store/memory"
	auditpostgres "conform/pkg/platform/audit/store/postgres"
	auditworker "conform/pkg/platform/audit/worker"
	"conform/pkg/platform/tx"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	var (
		db          *sql.DB
		projects    projectservice.Store
		assessments assessmentservice.Store
		auditStore  audit.Store
		runner      tx.Runner = tx.NoopRunner{}
	)

	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}

		projects = projectstore.NewPostgres(db)
		assessments = assessmentstore.NewPostgres(db)
		auditStore = auditpostgres.New(db)
		runner = tx.NewSQLRunner(db)
		log.Info("using postgres storage")
	} else {
		projects = projectstore.NewInMemory()
		assessments = assessmentstore.NewInMemory()
		auditStore = auditmemory.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("report cache enabled", "ttl", cfg.ReportCacheTTL)
	}

	// Audit events ride the same transaction as the state change they
	// describe, so the publisher stays synchronous here.
	auditPub := publisher.NewPublisher(auditStore)
	defer auditPub.Close()

	engine := compliance.NewEngine(
		compliance.WithLogger(log),
		compliance.WithMetrics(compliancemetrics.New()),
	)

	assessmentOpts := []assessmentservice.Option{
		assessmentservice.WithLogger(log),
		assessmentservice.WithMetrics(assessmentmetrics.New(prometheus.DefaultRegisterer)),
		assessmentservice.WithAuditPublisher(auditPub),
		assessmentservice.WithTx(runner),
	}
	if redisClient != nil {
		assessmentOpts = append(assessmentOpts,
			assessmentservice.WithReportCache(adapters.NewRedisReportCache(redisClient), cfg.ReportCacheTTL))
	}
	assessmentSvc := assessmentservice.New(assessments, projects, engine, assessmentOpts...)

	projectSvc := projectservice.New(projects,
		projectservice.WithLogger(log),
		projectservice.WithAssessments(assessments),
		projectservice.WithAuditPublisher(auditPub),
		projectservice.WithTx(runner),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger: log,
		Handlers: []httptransport.Registrar{
			projecthandler.New(projectSvc, log),
			assessmenthandler.New(assessmentSvc, log),
		},
		Token:        token.NewValidator(cfg.JWTSigningKey),
		AuthRequired: cfg.AuthRequired,
		Health: func(ctx context.Context) error {
			if db != nil {
				if err := db.PingContext(ctx); err != nil {
					return fmt.Errorf("postgres: %w", err)
				}
			}
			if redisClient != nil {
				if err := redisClient.Health(ctx); err != nil {
					return fmt.Errorf("redis: %w", err)
				}
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	if db != nil && len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := kgo.NewClient(kgo.SeedBrokers(cfg.Kafka.Brokers...))
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer kafkaClient.Close()

		outbox := auditworker.New(db, kafkaClient, cfg.Kafka.AuditTopic,
			auditworker.WithLogger(log),
			auditworker.WithPollInterval(cfg.Kafka.PollInterval),
		)
		if err := outbox.EnsureTopic(ctx); err != nil {
			return fmt.Errorf("ensure audit topic: %w", err)
		}
		g.Go(func() error {
			if err := outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("outbox worker: %w", err)
			}
			return nil
		})
		log.Info("audit outbox worker started", "topic", cfg.Kafka.AuditTopic)
	}

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr, "auth_required", cfg.AuthRequired)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
