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
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	identityhandler "alphaseek/internal/identity/handler"
	"alphaseek/internal/identity/notify"
	"alphaseek/internal/identity/sender"
	identityservice "alphaseek/internal/identity/service"
	"alphaseek/internal/identity/store/loginlink"
	sessionstore "alphaseek/internal/identity/store/session"
	userstore "alphaseek/internal/identity/store/user"
	"alphaseek/internal/identity/token"
	"alphaseek/internal/platform/config"
	"alphaseek/internal/platform/httpserver"
	"alphaseek/internal/platform/logger"
	"alphaseek/internal/platform/metrics"
	"alphaseek/internal/platform/redis"
	subscriptionhandler "alphaseek/internal/subscription/handler"
	subscriptionservice "alphaseek/internal/subscription/service"
	subscriptionstore "alphaseek/internal/subscription/store"
	"alphaseek/internal/transport/http/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.New()
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	m := metrics.New()

	var (
		users identityservice.UserStore = userstore.NewMemory()
		subs  subscriptionservice.Store
		links identityservice.LoginLinkStore = loginlink.NewMemory()

		health = make(map[string]router.HealthCheck)
	)

	memSubs := subscriptionstore.NewMemory()
	subs = memSubs
	var reader identityservice.PortfolioReader = memSubs

	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		linkDB, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("open postgres for login links: %w", err)
		}
		defer func() { _ = linkDB.Close() }()

		users = userstore.NewPostgres(pool)
		links = loginlink.NewPostgres(linkDB)
		pgSubs := subscriptionstore.NewPostgres(pool)
		subs = pgSubs
		reader = pgSubs
		health["postgres"] = pool.Ping
	}

	sessions := identityservice.SessionStore(sessionstore.NewMemory())
	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		sessions = sessionstore.NewRedis(redisClient.Client)
		health["redis"] = redisClient.Health
	}

	notifier := notify.NewBroadcaster()
	unsubscribe := notifier.Subscribe(func(ev notify.Event) {
		log.Info("session event",
			"event", string(ev.Type),
			"session_id", ev.Session.ID.String(),
			"device", ev.Session.Device,
		)
	})
	defer unsubscribe()

	tokens := token.NewService(cfg.JWTSigningKey, "alphaseek", "alphaseek-web")

	resolver := identityservice.NewResolver(
		users, sessions, links, reader,
		sender.NewLogSender(log),
		tokens,
		cfg.BaseURL,
		identityservice.WithLogger(log),
		identityservice.WithMetrics(m),
		identityservice.WithNotifier(notifier),
		identityservice.WithSessionTTL(cfg.SessionTTL),
		identityservice.WithLoginLinkTTL(cfg.LoginLinkTTL),
	)
	ledger := subscriptionservice.NewLedger(subs,
		subscriptionservice.WithLogger(log),
		subscriptionservice.WithMetrics(m),
	)

	validator := token.NewValidator(tokens)
	secureCookies := strings.HasPrefix(cfg.BaseURL, "https://")

	handler := router.New(router.Deps{
		Logger:        log,
		Metrics:       m,
		Auth:          identityhandler.New(resolver, validator, secureCookies, log),
		Subscriptions: subscriptionhandler.New(ledger, validator, log),
		Resolver:      resolver,
		HealthChecks:  health,
	})

	srv := httpserver.New(cfg.Addr, handler)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				swept, err := resolver.SweepExpired(gctx)
				if err != nil {
					log.Warn("sweep failed", "error", err)
					continue
				}
				if swept > 0 {
					log.Info("swept expired auth state", "count", swept)
				}
			}
		}
	})

	return g.Wait()
}
