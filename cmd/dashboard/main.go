package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/couponhub/dashboard/internal/admins"
	"github.com/couponhub/dashboard/internal/app"
	"github.com/couponhub/dashboard/internal/audit"
	audithttp "github.com/couponhub/dashboard/internal/audit/http"
	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/banners"
	"github.com/couponhub/dashboard/internal/conversions"
	"github.com/couponhub/dashboard/internal/coupons"
	"github.com/couponhub/dashboard/internal/merchants"
	"github.com/couponhub/dashboard/internal/observability"
	"github.com/couponhub/dashboard/internal/platform/cache"
	"github.com/couponhub/dashboard/internal/platform/db"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/jobs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("dashboard stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	pool, err := db.New(ctx, db.PoolConfig{DSN: cfg.PGDSN, MaxConns: cfg.PGMaxConns})
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPasswd, DB: cfg.RedisDB})
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	registry := rbac.DefaultRegistry()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	actors := auth.NewActorStore(pool)
	throttle := auth.NewThrottle(redisClient, cfg.LoginMaxAttempts, cfg.LoginWindow)
	authService := auth.NewService(actors, tokens, throttle, logger)
	authenticator := &auth.Authenticator{Resolver: auth.NewResolver(tokens, actors, logger), Registry: registry}

	auditStore := audit.NewPGStore(pool)
	var (
		sink       audit.Store = auditStore
		jobHandler *jobs.Handler
	)
	if cfg.QueueAudit() {
		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPasswd, DB: cfg.RedisDB}
		client := asynq.NewClient(redisOpts)
		defer client.Close()
		inspector := asynq.NewInspector(redisOpts)
		defer inspector.Close()
		sink = jobs.NewAuditDispatcher(client)
		jobHandler = jobs.NewHandler(inspector, logger)
		logger.Info("audit records routed through queue", slog.String("queue", jobs.QueueAudit))
	}
	recorder := audit.NewRecorder(sink, logger,
		audit.WithTimeout(cfg.AuditWriteTimeout),
		audit.WithFailureCounter(metrics.AuditFailures()),
	)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Authenticator:      authenticator,
		Metrics:            metrics,
		AuthHandler:        auth.NewHandler(logger, authService),
		PermissionsHandler: rbac.NewPermissionsHandler(registry, auth.RequireCapability(rbac.CapAdminsRead)),
		MerchantsHandler:   merchants.NewHandler(logger, merchants.NewService(merchants.NewRepository(pool), recorder)),
		CouponsHandler:     coupons.NewHandler(logger, coupons.NewService(coupons.NewRepository(pool), recorder)),
		BannersHandler:     banners.NewHandler(logger, banners.NewService(banners.NewRepository(pool), recorder)),
		ConversionsHandler: conversions.NewHandler(logger, conversions.NewService(conversions.NewRepository(pool), recorder)),
		AdminsHandler:      admins.NewHandler(logger, admins.NewService(admins.NewRepository(pool), recorder)),
		AuditHandler:       audithttp.NewHandler(logger, audit.NewService(auditStore)),
		JobHandler:         jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down http server")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
