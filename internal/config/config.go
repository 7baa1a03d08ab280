package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	AppPort        string
	BaseURL        string
	APIPath        string
	RequestTimeout time.Duration
	CORSOrigin     string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	KafkaBrokers []string
	KafkaTopic   string
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         os.Getenv("APP_ENV"),
		AppPort:        getEnv("APP_PORT", "8080"),
		BaseURL:        strings.TrimRight(os.Getenv("BASE_URL"), "/"),
		APIPath:        strings.Trim(os.Getenv("API_PATH"), "/"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 15*time.Second),
		CORSOrigin:     getEnv("CORS_ORIGIN", "http://localhost:5173"),
		KafkaBrokers:   splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "storefront.orders"),
	}

	cfg.applyDatabase()

	if cfg.BaseURL == "" || cfg.APIPath == "" {
		log.Fatal("BASE_URL and API_PATH must be set")
	}

	return cfg
}

// LoadDatabaseConfig reads only the receipts database settings.
// The migrator uses it so it can run without the shop API configured.
func LoadDatabaseConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.applyDatabase()
	return cfg
}

func (c *Config) applyDatabase() {
	c.DBHost = os.Getenv("DB_HOST")
	c.DBUser = os.Getenv("DB_USER")
	c.DBPassword = os.Getenv("DB_PASSWORD")
	c.DBName = os.Getenv("DB_NAME")
	c.DBPort = getEnv("DB_PORT", "5432")
}

// LedgerEnabled reports whether a receipts database is configured.
func (c *Config) LedgerEnabled() bool {
	return c.DBHost != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
