// Command server runs the registry synchronization service: the HTTP API,
// the scheduled sync loop and the upstream token cache.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	casehandler "lexsync/internal/cases/handler"
	casemetrics "lexsync/internal/cases/metrics"
	"lexsync/internal/cases/query"
	casestore "lexsync/internal/cases/store"
	"lexsync/internal/cases/syncer"
	httpapi "lexsync/internal/http"
	"lexsync/internal/platform/config"
	"lexsync/internal/platform/httpserver"
	"lexsync/internal/platform/logger"
	"lexsync/internal/platform/postgres"
	platformredis "lexsync/internal/platform/redis"
	"lexsync/internal/registry"
	registrymetrics "lexsync/internal/registry/metrics"
	"lexsync/internal/registry/token"
	"lexsync/pkg/audit"
	"lexsync/pkg/platform/middleware/principal"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Token store preference: Redis (TTL does the expiry bookkeeping), then
	// Postgres, then process memory.
	var tokenStore token.Store
	switch {
	case redisClient != nil:
		tokenStore = token.NewRedis(redisClient.Client)
	case db != nil:
		tokenStore = token.NewPostgres(db)
	default:
		tokenStore = token.NewInMemoryStore()
	}

	regMetrics := registrymetrics.New()
	httpClient := &http.Client{Timeout: cfg.Registry.HTTPTimeout}
	authenticator := registry.NewAPIKeyAuthenticator(cfg.Registry.BaseURL, cfg.Registry.APIKey, httpClient)
	tokenCache := token.NewCache(tokenStore, authenticator,
		token.WithMargin(cfg.Registry.TokenMargin),
		token.WithLogger(log),
		token.WithMetrics(regMetrics),
	)
	client := registry.NewClient(cfg.Registry, tokenCache,
		registry.WithClientLogger(log),
		registry.WithClientMetrics(regMetrics),
		registry.WithHTTPClient(httpClient),
	)

	var caseStore casestore.Store
	if db != nil {
		caseStore = casestore.NewPostgres(db)
	} else {
		caseStore = casestore.NewInMemoryStore()
		log.Warn("no DATABASE_URL set, case records are held in process memory")
	}

	var auditSink audit.Store = audit.NewInMemoryStore()
	if cfg.KafkaBrokers != "" {
		kafkaSink, err := audit.NewKafkaSink(splitBrokers(cfg.KafkaBrokers), audit.DefaultTopic)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		auditSink = kafkaSink
	}
	auditor := audit.NewPublisher(auditSink)

	syncMetrics := casemetrics.New()
	engine := syncer.New(client, caseStore,
		syncer.WithLogger(log),
		syncer.WithMetrics(syncMetrics),
		syncer.WithAudit(auditor),
	)
	view := query.NewView(caseStore, client, cfg.Sync.ReportID, query.WithViewLogger(log))

	verifier := principal.NewVerifier(cfg.JWTSigningKey)
	cases := casehandler.New(engine, view, log)
	router := httpapi.NewRouter(cases, verifier, log, healthHandler(db, redisClient))

	srv := httpserver.New(cfg.Addr, router)

	rootCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Sync.Interval > 0 && cfg.Sync.ReportID > 0 {
		go runSyncLoop(rootCtx, engine, cfg.Sync, log)
	}

	go func() {
		log.Info("starting lexsync", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// runSyncLoop runs scheduled full syncs on one goroutine so passes never
// overlap. Each pass gets its own timeout.
func runSyncLoop(ctx context.Context, engine *syncer.Engine, cfg config.Sync, log *slog.Logger) {
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.InfoContext(ctx, "sync loop started", "report_id", cfg.ReportID, "interval", cfg.Interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			passCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
			// Outcomes are logged and audited inside the engine.
			_, _ = engine.RunFullSync(passCtx, cfg.ReportID)
			cancel()
		}
	}
}

func healthHandler(db *sql.DB, redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
