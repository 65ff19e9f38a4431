package cmd

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries everything the engine needs to run, read from the
// environment with an optional .env file on top.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"fulfillment"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	PushWebhookURL string `env:"PUSH_WEBHOOK_URL"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	// DispatchTimeout bounds each notification delivery attempt.
	DispatchTimeout time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"10s"`

	// OfferTTL is how long an assignment offer waits for the partner's
	// response before the sweep cancels it.
	OfferTTL time.Duration `env:"ASSIGNMENT_OFFER_TTL" envDefault:"2m"`

	// SweepInterval is how often the assignment sweep runs.
	SweepInterval time.Duration `env:"ASSIGNMENT_SWEEP_INTERVAL" envDefault:"15s"`

	// CostMarginPct is the share of revenue treated as cost in the
	// daily summary, 0..100.
	CostMarginPct float64 `env:"SUMMARY_COST_MARGIN_PCT" envDefault:"70"`

	// SummaryHourUTC is the UTC hour of day the daily summary batch
	// fires at.
	SummaryHourUTC int `env:"SUMMARY_HOUR_UTC" envDefault:"1"`
}

// LoadConfig reads the configuration. A missing .env file is fine; the
// environment alone then decides.
func LoadConfig() (Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.SummaryHourUTC < 0 || cfg.SummaryHourUTC > 23 {
		return Config{}, fmt.Errorf("SUMMARY_HOUR_UTC must be 0..23, got %d", cfg.SummaryHourUTC)
	}

	return cfg, nil
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
