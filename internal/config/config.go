package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress            string
	DatabaseURI           string
	CatalogAddress        string
	GatewayAddress        string
	GatewayWebhookSecret  string
	AuthSecret            string
	ProvisionPollInterval time.Duration
	WorkerPoolSize        int
	ShutdownTimeout       time.Duration
	ProvisionBatchSize    int
}

const (
	defaultRunAddress            = ":8080"
	defaultAuthSecret            = "change-me-in-production"
	defaultProvisionPollInterval = 5 * time.Second
	defaultWorkerPoolSize        = 4
	defaultShutdownTimeout       = 10 * time.Second
	defaultProvisionBatchSize    = 32
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
		CatalogAddress:        getString(lookup, "CATALOG_ADDRESS", ""),
		GatewayAddress:        getString(lookup, "GATEWAY_ADDRESS", ""),
		GatewayWebhookSecret:  getString(lookup, "GATEWAY_WEBHOOK_SECRET", ""),
		AuthSecret:            getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		ProvisionPollInterval: getDuration(lookup, "PROVISION_POLL_INTERVAL", defaultProvisionPollInterval),
		WorkerPoolSize:        getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		ProvisionBatchSize:    getInt(lookup, "PROVISION_BATCH_SIZE", defaultProvisionBatchSize),
	}

	fs := flag.NewFlagSet("coursegate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.ProvisionPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.CatalogAddress, "c", cfg.CatalogAddress, "Course catalog base URL")
	fs.StringVar(&cfg.GatewayAddress, "g", cfg.GatewayAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.GatewayWebhookSecret, "webhook-secret", cfg.GatewayWebhookSecret, "Shared secret for gateway webhook signatures")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Shared secret for identity provider tokens")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent provisioning workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between provisioning polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.ProvisionBatchSize, "poll-batch", cfg.ProvisionBatchSize, "Maximum order items per provisioning batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ProvisionPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ProvisionBatchSize <= 0 {
		cfg.ProvisionBatchSize = defaultProvisionBatchSize
	}

	if cfg.ProvisionPollInterval <= 0 {
		cfg.ProvisionPollInterval = defaultProvisionPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.CatalogAddress == "" {
		return nil, fmt.Errorf("catalog address must be provided")
	}

	if cfg.GatewayAddress == "" {
		return nil, fmt.Errorf("gateway address must be provided")
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

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
