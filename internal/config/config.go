package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// insecureTokenSecret is the non-production fallback when
// CHECKOUT_TOKEN_SECRET is not set. Production startup fails instead of
// using it.
const insecureTokenSecret = "dev-only-checkout-secret"

type Config struct {
	HTTPAddr    string
	AppEnv      string
	PostgresDSN string
	LogLevel    string

	SiteURL             string
	ExtraOrigins        []string
	CheckoutTokenSecret string
	InternalAPIKey      string

	PaymentAPIURL        string
	PaymentAPIKey        string
	PaymentWebhookSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CheckoutRateMax    int
	TokenRateMax       int
	DiscountRateMax    int
	PrivacyRateMax     int
	RateWindowSeconds  int
	PrivacyWindowSecs  int
	RateLimitSweepSecs int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:             addr,
		AppEnv:               envDefault("APP_ENV", "development"),
		PostgresDSN:          os.Getenv("POSTGRES_DSN"),
		LogLevel:             envDefault("LOG_LEVEL", "info"),
		SiteURL:              envDefault("SITE_URL", "https://dottydots.no"),
		ExtraOrigins:         splitList(os.Getenv("EXTRA_ALLOWED_ORIGINS")),
		CheckoutTokenSecret:  os.Getenv("CHECKOUT_TOKEN_SECRET"),
		InternalAPIKey:       os.Getenv("INTERNAL_API_KEY"),
		PaymentAPIURL:        os.Getenv("PAYMENT_API_URL"),
		PaymentAPIKey:        os.Getenv("PAYMENT_API_KEY"),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              envIntDefault("REDIS_DB", 0),
		CheckoutRateMax:      envIntDefault("CHECKOUT_RATE_MAX", 10),
		TokenRateMax:         envIntDefault("TOKEN_RATE_MAX", 30),
		DiscountRateMax:      envIntDefault("DISCOUNT_RATE_MAX", 20),
		PrivacyRateMax:       envIntDefault("PRIVACY_RATE_MAX", 5),
		RateWindowSeconds:    envIntDefault("RATE_WINDOW_SECONDS", 60),
		PrivacyWindowSecs:    envIntDefault("PRIVACY_WINDOW_SECONDS", 3600),
		RateLimitSweepSecs:   envIntDefault("RATE_LIMIT_SWEEP_SECONDS", 60),
	}
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate fails startup on configuration that must not be defaulted in
// production.
func (c Config) Validate() error {
	if c.IsProduction() && c.CheckoutTokenSecret == "" {
		return errors.New("CHECKOUT_TOKEN_SECRET is required in production")
	}
	return nil
}

// TokenSecret returns the configured checkout token secret, falling back to
// the fixed development secret outside production.
func (c Config) TokenSecret() string {
	if c.CheckoutTokenSecret != "" {
		return c.CheckoutTokenSecret
	}
	return insecureTokenSecret
}

// TokenSecretInsecure reports whether the development fallback secret is in
// use, so startup can warn about it.
func (c Config) TokenSecretInsecure() bool {
	return c.CheckoutTokenSecret == ""
}

func (c Config) RateWindow() time.Duration {
	return time.Duration(c.RateWindowSeconds) * time.Second
}

func (c Config) PrivacyWindow() time.Duration {
	return time.Duration(c.PrivacyWindowSecs) * time.Second
}

func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.RateLimitSweepSecs) * time.Second
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
