package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tair/acme-store/pkg/database"
)

// Store drivers
const (
	DriverGorm     = "gorm"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the service configuration
type Config struct {
	ServiceName    string
	Environment    string
	LogLevel       string
	Port           string
	Bootstrap      bool
	StoreDriver    string
	DatabaseURL    string
	BcryptCost     int
	RequestTimeout time.Duration

	GRPCEnabled bool
	GRPCPort    string

	TracingEnabled bool
	JaegerEndpoint string

	RedisAddr       string
	ProductCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	CORSAllowedOrigins []string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cost, err := getEnvInt("BCRYPT_COST", 10)
	if err != nil {
		return nil, err
	}
	timeout, err := getEnvDuration("REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("PRODUCT_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "acme_store"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	return &Config{
		ServiceName:        getEnv("OTEL_SERVICE_NAME", "acme-store"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Port:               getEnv("PORT", "3001"),
		Bootstrap:          getEnvBool("BOOTSTRAP", false),
		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", DriverGorm)),
		DatabaseURL:        getEnv("DATABASE_URL", dbConfig.DSN()),
		BcryptCost:         cost,
		RequestTimeout:     timeout,
		GRPCEnabled:        getEnvBool("GRPC_ENABLED", true),
		GRPCPort:           getEnv("GRPC_PORT", "9090"),
		TracingEnabled:     getEnvBool("TRACING_ENABLED", false),
		JaegerEndpoint:     getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		ProductCacheTTL:    cacheTTL,
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "favorite-events"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}, nil
}

// IsDevelopment reports whether console logging should be used
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverGorm, DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver %q", c.StoreDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q (want gorm, postgres or memory)", c.StoreDriver)
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}

	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}

	if c.GRPCEnabled {
		grpcPort, err := strconv.Atoi(c.GRPCPort)
		if err != nil || grpcPort < 1 || grpcPort > 65535 {
			return fmt.Errorf("invalid GRPC_PORT %q", c.GRPCPort)
		}
		if c.GRPCPort == c.Port {
			return fmt.Errorf("GRPC_PORT %q must differ from PORT", c.GRPCPort)
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
