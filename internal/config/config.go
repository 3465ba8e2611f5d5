package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
// Monetary values are in minor currency units (cents).
type Config struct {
	RunAddress  string
	DatabaseURI string
	JWTSecret   string

	ShippingFreeThreshold int64
	ShippingFlatFee       int64
	SettlementRetryBudget int
	StartingBalance       int64

	RedisAddr       string
	SummaryCacheTTL time.Duration

	KafkaBrokers    []string
	OrderEventTopic string
	EventBufferSize int
	EventWorkers    int

	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress            = ":8080"
	defaultJWTSecret             = "change-me-in-production"
	defaultShippingFreeThreshold = 10000
	defaultShippingFlatFee       = 1000
	defaultSettlementRetryBudget = 3
	defaultStartingBalance       = 200000
	defaultSummaryCacheTTL       = 30 * time.Second
	defaultOrderEventTopic       = "order-events"
	defaultEventBufferSize       = 256
	defaultEventWorkers          = 2
	defaultShutdownTimeout       = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		JWTSecret:             getString(lookup, "JWT_SECRET", defaultJWTSecret),
		ShippingFreeThreshold: getInt64(lookup, "SHIPPING_FREE_THRESHOLD", defaultShippingFreeThreshold),
		ShippingFlatFee:       getInt64(lookup, "SHIPPING_FLAT_FEE", defaultShippingFlatFee),
		SettlementRetryBudget: getInt(lookup, "SETTLEMENT_RETRY_BUDGET", defaultSettlementRetryBudget),
		StartingBalance:       getInt64(lookup, "STARTING_BALANCE", defaultStartingBalance),
		RedisAddr:             getString(lookup, "REDIS_ADDR", ""),
		SummaryCacheTTL:       getDuration(lookup, "SUMMARY_CACHE_TTL", defaultSummaryCacheTTL),
		KafkaBrokers:          splitCSV(getString(lookup, "KAFKA_BROKERS", "")),
		OrderEventTopic:       getString(lookup, "ORDER_EVENTS_TOPIC", defaultOrderEventTopic),
		EventBufferSize:       getInt(lookup, "EVENT_BUFFER_SIZE", defaultEventBufferSize),
		EventWorkers:          getInt(lookup, "EVENT_WORKERS", defaultEventWorkers),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("craftmarket", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		brokersStr         = strings.Join(cfg.KafkaBrokers, ",")
		cacheTTLStr        = cfg.SummaryCacheTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.Int64Var(&cfg.ShippingFreeThreshold, "free-shipping-over", cfg.ShippingFreeThreshold, "Items price (cents) at which shipping is free")
	fs.Int64Var(&cfg.ShippingFlatFee, "shipping-fee", cfg.ShippingFlatFee, "Flat shipping fee in cents")
	fs.IntVar(&cfg.SettlementRetryBudget, "settlement-retries", cfg.SettlementRetryBudget, "Retries after a settlement serialization conflict")
	fs.Int64Var(&cfg.StartingBalance, "starting-balance", cfg.StartingBalance, "Balance in cents granted at registration")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for the summary cache (empty disables)")
	fs.StringVar(&brokersStr, "kafka-brokers", brokersStr, "Comma-separated kafka brokers (empty disables events)")
	fs.StringVar(&cfg.OrderEventTopic, "events-topic", cfg.OrderEventTopic, "Kafka topic for order events")
	fs.IntVar(&cfg.EventBufferSize, "events-buffer", cfg.EventBufferSize, "In-process order event queue size")
	fs.IntVar(&cfg.EventWorkers, "events-workers", cfg.EventWorkers, "Concurrent event publish workers")
	fs.StringVar(&cacheTTLStr, "summary-cache-ttl", cacheTTLStr, "TTL for cached sales summaries")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	cfg.KafkaBrokers = splitCSV(brokersStr)

	var err error

	if cfg.SummaryCacheTTL, err = time.ParseDuration(cacheTTLStr); err != nil {
		return nil, fmt.Errorf("invalid summary cache ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.ShippingFreeThreshold < 0 {
		cfg.ShippingFreeThreshold = defaultShippingFreeThreshold
	}

	if cfg.ShippingFlatFee < 0 {
		cfg.ShippingFlatFee = defaultShippingFlatFee
	}

	if cfg.SettlementRetryBudget < 0 {
		cfg.SettlementRetryBudget = defaultSettlementRetryBudget
	}

	if cfg.StartingBalance < 0 {
		cfg.StartingBalance = defaultStartingBalance
	}

	if cfg.EventBufferSize <= 0 {
		cfg.EventBufferSize = defaultEventBufferSize
	}

	if cfg.EventWorkers <= 0 {
		cfg.EventWorkers = defaultEventWorkers
	}

	if cfg.SummaryCacheTTL <= 0 {
		cfg.SummaryCacheTTL = defaultSummaryCacheTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getInt64(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
