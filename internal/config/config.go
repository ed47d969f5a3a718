package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ReferenceTZ is the single authoritative timezone for daily-state day
// boundaries. Fixed, never ambient system time, so day rollover is the
// same in every deployment region.
var ReferenceTZ = time.FixedZone("IST", 5*3600+30*60)

// Config holds all runtime configuration for the payment engine.
type Config struct {
	Port     int
	LogLevel string

	// Payment window and housekeeping.
	PayWindow     time.Duration // how long a buyer has to pay
	GracePeriod   time.Duration // clock-skew slack added to the pay window
	SweepInterval time.Duration // expiry sweep cadence
	CleanupDelay  time.Duration // delay before delivered/instruction messages are deleted

	// Bootstrap escape hatch when no account is configured.
	DefaultUpiID     string
	DefaultPayeeName string

	// Delivery collaborator endpoint.
	DeliveryURL     string
	DeliveryTimeout time.Duration

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. A .env file is loaded first when present (local
// development). It returns an error for any invalid value.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	payWindow, err := getDuration("PAY_WINDOW", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid PAY_WINDOW: %w", err)
	}

	gracePeriod, err := getDuration("GRACE_PERIOD", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid GRACE_PERIOD: %w", err)
	}

	sweepInterval, err := getDuration("SWEEP_INTERVAL", 1*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
	}

	cleanupDelay, err := getDuration("CLEANUP_DELAY", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid CLEANUP_DELAY: %w", err)
	}

	defaultUpiID := getStr("DEFAULT_UPI_ID", "")
	if defaultUpiID == "" {
		return nil, fmt.Errorf("DEFAULT_UPI_ID is required")
	}

	defaultPayeeName := getStr("DEFAULT_PAYEE_NAME", "Seller")

	deliveryURL := getStr("DELIVERY_URL", "")

	deliveryTimeout, err := getDuration("DELIVERY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid DELIVERY_TIMEOUT: %w", err)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:             port,
		LogLevel:         logLevel,
		PayWindow:        payWindow,
		GracePeriod:      gracePeriod,
		SweepInterval:    sweepInterval,
		CleanupDelay:     cleanupDelay,
		DefaultUpiID:     defaultUpiID,
		DefaultPayeeName: defaultPayeeName,
		DeliveryURL:      deliveryURL,
		DeliveryTimeout:  deliveryTimeout,
		ReadTimeout:      readTimeout,
		WriteTimeout:     writeTimeout,
		IdleTimeout:      idleTimeout,
		ShutdownTimeout:  shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
