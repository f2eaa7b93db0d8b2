// Package main содержит точку входа клиента платформы: проверяет
// cookie-сессию, печатает текущего пользователя и счётчики подписчиков
// его зданий, попутно отправляя события аналитики.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/magabrotheeeer/tenant-platform-client/internal/analytics"
	"github.com/magabrotheeeer/tenant-platform-client/internal/config"
	"github.com/magabrotheeeer/tenant-platform-client/internal/lib/sl"
	"github.com/magabrotheeeer/tenant-platform-client/internal/session"
	"github.com/magabrotheeeer/tenant-platform-client/internal/storage"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting tenant-platform-client", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess, err := session.New(logger, cfg.BaseURL, cfg.Timeout)
	if err != nil {
		logger.Error("failed to initialize session", sl.Err(err))
		os.Exit(1)
	}

	track := analytics.New(cfg.AnalyticsEndpoint, cfg.AnalyticsWriteKey)
	if cfg.AnalyticsEndpoint != "" {
		if err := track.Page(ctx, "auth-check"); err != nil {
			logger.Warn("analytics page event failed", sl.Err(err))
		}
	}

	user, err := sess.FetchUser(ctx)
	if err != nil {
		logger.Error("auth check failed", sl.Err(err))
		os.Exit(1)
	}
	if user == nil {
		logger.Info("no active session")
		return
	}

	logger.Info("active session",
		sl.Email(user.Email),
		slog.String("type", user.Type),
		slog.Bool("verified", user.Verified),
		slog.Int("subscriptions", len(user.Subscriptions)),
		slog.Int("subscription_limit", user.SubscriptionLimit),
	)

	if cfg.AnalyticsEndpoint != "" {
		if err := track.Identify(ctx, strconv.Itoa(user.ID)); err != nil {
			logger.Warn("analytics identify failed", sl.Err(err))
		}
	}

	if cfg.ConnectionString == "" {
		return
	}
	db, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Error("failed to initialize storage", sl.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	for _, sub := range user.Subscriptions {
		count, err := db.BuildingSubscriberCount(ctx, sub.BBL)
		if err != nil {
			logger.Error("failed to count subscribers", slog.String("bbl", sub.BBL), sl.Err(err))
			continue
		}
		logger.Info("building subscribers", slog.String("bbl", sub.BBL), slog.Int("count", count))
	}
}
