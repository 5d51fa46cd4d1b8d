package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/config"
	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"
	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/infra/db"
	webhttp "github.com/NikolaiPoverud/dotty-webshop-sub002/internal/infra/http"
	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/infra/payment"
	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/infra/ratelimit"
	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/usecase"
)

func main() {
	cfg := config.FromEnv()
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.TokenSecretInsecure() {
		logger.Warn("CHECKOUT_TOKEN_SECRET not set, using the insecure development fallback")
	}

	store, err := db.NewStore(cfg)
	if err != nil {
		logger.Error("connect store", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	limiter := buildLimiter(ctx, cfg, logger)

	validator := &usecase.CartValidator{
		Catalog:   db.NewProductRepository(store.DB),
		Discounts: db.NewDiscountRepository(store.DB),
	}

	server := webhttp.NewServer(cfg, webhttp.ServerDeps{
		RateLimiter: limiter,
		Tokens:      usecase.NewCheckoutTokens(cfg.TokenSecret(), nil),
		Carts:       validator,
		Payments:    payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentAPIKey),
		Privacy:     db.NewPrivacyRequestRepository(store.DB),
		DBReady:     true,
	}, logger)

	logger.Info("listening", "addr", cfg.HTTPAddr, "env", cfg.AppEnv)
	if err := server.Run(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// buildLimiter wires the shared redis backend when configured, always backed
// by a local in-process counter so rate limiting degrades instead of failing.
func buildLimiter(ctx context.Context, cfg config.Config, logger *slog.Logger) domain.RateLimiter {
	local := ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{
		SweepInterval: cfg.SweepInterval(),
	})
	go local.StartSweeper(ctx)

	var primary domain.RateLimiter
	if cfg.RedisAddr != "" {
		redisLimiter, err := ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, nil)
		if err != nil {
			logger.Warn("redis rate limiter unavailable, using local counters only", "error", err)
		} else {
			primary = redisLimiter
		}
	} else {
		logger.Info("REDIS_ADDR not set, rate limiting is per-instance only")
	}
	return ratelimit.NewFallbackLimiter(primary, local, logger)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
