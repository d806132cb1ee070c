package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	BaseURL     string

	AWSRegion        string
	WarningSender    string
	WarningRecipient string

	WarningDispatchTimeout time.Duration
	WarningSweepInterval   time.Duration

	EnableExpirySweep  bool
	EnableWarningSweep bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "creditapp"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	sender := os.Getenv("WARNING_SENDER")
	if sender == "" {
		sender = "noreply@creditapp.local"
	}
	recipient := os.Getenv("WARNING_RECIPIENT")
	if recipient == "" {
		recipient = "bank-ops@creditapp.local"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		BaseURL:     baseURL,

		AWSRegion:        region,
		WarningSender:    sender,
		WarningRecipient: recipient,

		WarningDispatchTimeout: envDuration("WARNING_DISPATCH_TIMEOUT", 10*time.Second),
		WarningSweepInterval:   envDuration("WARNING_SWEEP_INTERVAL", time.Hour),

		EnableExpirySweep:  envBool("ENABLE_EXPIRY_SWEEP", true),
		EnableWarningSweep: envBool("ENABLE_WARNING_SWEEP", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
		return parsed
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
