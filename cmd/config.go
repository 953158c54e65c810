package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const envPrefix = "AUCTION"

type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"auction"`
	DBSslMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisAddr string `envconfig:"REDIS_ADDR"`
	AMQPURL   string `envconfig:"AMQP_URL"`
	JWTSecret string `envconfig:"JWT_SECRET"`

	TaxRate         decimal.Decimal `envconfig:"TAX_RATE" default:"0.10"`
	BaseDeliveryFee string          `envconfig:"BASE_DELIVERY_FEE" default:"5.00"`
	AbuseThreshold  int             `envconfig:"ABUSE_THRESHOLD" default:"3"`

	BiddingWindow   time.Duration `envconfig:"BIDDING_WINDOW" default:"5m"`
	BidQuorum       int           `envconfig:"BID_QUORUM" default:"3"`
	WindowSweepSpec string        `envconfig:"WINDOW_SWEEP_SPEC" default:"*/10 * * * * *"`
	RefundRetrySpec string        `envconfig:"REFUND_RETRY_SPEC" default:"0 * * * * *"`
}

// LoadConfig reads an optional .env file, then the AUCTION_* environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}
	if cfg.BidQuorum < 1 {
		return Config{}, fmt.Errorf("%s_BID_QUORUM must be at least 1", envPrefix)
	}
	if cfg.BiddingWindow <= 0 {
		return Config{}, fmt.Errorf("%s_BIDDING_WINDOW must be positive", envPrefix)
	}
	return cfg, nil
}

// DSN is the PostgreSQL connection string for both gorm and goose.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
