package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Metering  MeteringConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret string
}

type MeteringConfig struct {
	StoreTimeout time.Duration
	ReadRetries  uint
	// CoupledLimits denies an action once any limited counter is exhausted.
	CoupledLimits bool
	// PaymentRequiredStatus is the HTTP status used for "payment required" replies.
	PaymentRequiredStatus int
	ChargeTopic           string
	SweepSchedule         string
	SweepGracePeriod      time.Duration
	PackageCacheTTL       time.Duration
	LogFilePath           string
}

type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3001"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			RateLimitRequests:  getEnvAsInt("RATE_LIMIT_REQUESTS", 60),
			RateLimitWindow:    getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Metering: MeteringConfig{
			StoreTimeout:          getEnvAsDuration("METERING_STORE_TIMEOUT", 3*time.Second),
			ReadRetries:           uint(getEnvAsInt("METERING_READ_RETRIES", 3)),
			CoupledLimits:         getEnvAsBool("METERING_COUPLED_LIMITS", true),
			PaymentRequiredStatus: getEnvAsInt("METERING_PAYMENT_REQUIRED_STATUS", 200),
			ChargeTopic:           getEnv("METERING_CHARGE_TOPIC", "USAGE_CHARGE_RETRY"),
			SweepSchedule:         getEnv("METERING_SWEEP_SCHEDULE", "@every 1m"),
			SweepGracePeriod:      getEnvAsDuration("METERING_SWEEP_GRACE", 2*time.Minute),
			PackageCacheTTL:       getEnvAsDuration("METERING_PACKAGE_CACHE_TTL", 5*time.Minute),
			LogFilePath:           getEnv("METERING_LOG_FILE_PATH", "logs/metering.log"),
		},
		Telemetry: TelemetryConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "video-saas-be"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
