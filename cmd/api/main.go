package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scrpay/txsync-backend/internal/api"
	"github.com/scrpay/txsync-backend/internal/auth"
	"github.com/scrpay/txsync-backend/internal/config"
	"github.com/scrpay/txsync-backend/internal/db"
	"github.com/scrpay/txsync-backend/internal/logger"
	"github.com/scrpay/txsync-backend/internal/metrics"
	"github.com/scrpay/txsync-backend/internal/mockapi"
	"github.com/scrpay/txsync-backend/internal/repository/postgres"
	"github.com/scrpay/txsync-backend/internal/services"
	"github.com/scrpay/txsync-backend/internal/source"
	"github.com/scrpay/txsync-backend/internal/syncer"
	"github.com/scrpay/txsync-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	metrics.Init()

	// sync engine
	src := source.NewHTTPClient(cfg.SourceAPIURL, cfg.SourceTimeout, log)
	limiter := syncer.NewRateLimiter(cfg.SyncMaxReqPerMin, time.Minute)
	committer := syncer.NewCommitter(repos.Transactions, log)
	recalc := syncer.NewRecalculator(repos.Transactions, repos.Aggregates, log)
	tracker := syncer.NewTracker(repos.SyncRuns)
	engine := syncer.NewEngine(src, limiter, committer, recalc, tracker, cfg.SyncMaxPerRun, log)

	sched := syncer.NewScheduler(engine, cfg.SyncInterval, log)
	go sched.Start(ctx)

	// read services
	aggSvc := services.NewAggregateService(repos.Aggregates, repos.Transactions)
	payoutSvc := services.NewPayoutService(repos.PayoutRequests, wp, log)
	healthSvc := services.NewHealthService(pool, repos.SyncRuns, repos.Transactions, repos.Aggregates)

	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, 15*time.Minute, 24*time.Hour)
	adminHash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Error("hash admin password", "err", err)
		os.Exit(1)
	}

	r := api.NewRouter(api.RouterDeps{
		Cfg:          cfg,
		TM:           tm,
		AdminHash:    adminHash,
		Engine:       engine,
		SyncRuns:     repos.SyncRuns,
		AggregateSvc: aggSvc,
		PayoutSvc:    payoutSvc,
		HealthSvc:    healthSvc,
		MockAPI:      mockapi.NewService(log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
