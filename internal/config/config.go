package config

import (
	"os"
	"strconv"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	RedirectBase       string // e.g. https://api.ticketgate.app/api/auth
}

type Config struct {
	AppURL   string // public site base, used in checkout redirect URLs
	Currency string

	// Price for unlocking registrant details on a free event (minor units).
	UnlockAmount int64

	R2     R2Config
	Stripe StripeConfig
	OAuth  OAuthConfig
}

func LoadConfig() *Config {
	cfg := &Config{
		AppURL:       getEnv("APP_URL", "http://localhost:3000"),
		Currency:     getEnv("CURRENCY", "gbp"),
		UnlockAmount: getEnvInt64("UNLOCK_AMOUNT_MINOR", 900), // £9.00
	}

	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")
	cfg.R2.PublicURL = os.Getenv("R2_PUBLIC_URL")

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	cfg.OAuth.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.OAuth.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	cfg.OAuth.RedirectBase = getEnv("OAUTH_REDIRECT_BASE", cfg.AppURL+"/api/auth")

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
