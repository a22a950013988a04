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

	"github.com/jackc/pgx/v5/pgxpool"

	"locallibrary/internal/access"
	"locallibrary/internal/admin"
	"locallibrary/internal/auth"
	"locallibrary/internal/author"
	"locallibrary/internal/book"
	"locallibrary/internal/catalog"
	"locallibrary/internal/httpx"
	"locallibrary/internal/loan"
	"locallibrary/internal/platform/logging"
	"locallibrary/internal/platform/metrics"
	"locallibrary/internal/user"
)

func main() {
	loadEnvFiles()
	logging.Setup()

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := openDB(ctx, cfg.DSN)
	if err != nil {
		slog.Error("cannot open database", "dsn", redactDSN(cfg.DSN), "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	appMetrics := metrics.New()
	authz := access.NewTokenAuthorizer()
	registry := admin.Default()

	userService := user.NewService(user.NewPostgresRepo(dbPool, cfg.DBTimeout))
	loanService := loan.NewService(loan.NewPostgresRepo(dbPool, cfg.DBTimeout), authz).
		WithOutcomeRecorder(appMetrics)

	h := handlers{
		catalog: catalog.NewHTTPHandler(catalog.NewService(catalog.NewPostgresRepo(dbPool, cfg.DBTimeout))),
		authors: author.NewHTTPHandler(author.NewService(author.NewPostgresRepo(dbPool, cfg.DBTimeout))),
		books:   book.NewHTTPHandler(book.NewService(book.NewPostgresRepo(dbPool, cfg.DBTimeout))),
		loans:   loan.NewHTTPHandler(loanService, registry.ListFilter(admin.BookInstance)),
		users:   user.NewHTTPHandler(userService),
		auth:    auth.NewHTTPHandler(auth.NewService(cfg.JWTSecret, userService).WithTokenTTL(cfg.TokenTTL)),
		admin:   admin.NewHTTPHandler(registry),
		metrics: appMetrics.Handler(),
		db:      dbPool,
	}

	router := newRouter(h, cfg.JWTSecret, authz)
	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)

	handler := httpx.Chain(router,
		httpx.RecoveryMiddleware,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		httpx.SecurityHeadersMiddleware,
		rateLimiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
		// Innermost so it sees the pattern the router matched.
		httpx.MetricsMiddleware(appMetrics),
	)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "err", err)
		}
	}()

	slog.Info("starting server", "addr", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("database connection OK", "dsn", redactDSN(dsn))
	return pool, nil
}
