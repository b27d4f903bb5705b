package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the API reads from the environment.
type Config struct {
	AppEnv string
	Port   string
	Secret string

	DatabaseURL string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string

	PlacesAPIKey  string
	PlacesBaseURL string
	SentimentURL  string

	SendGridAPIKey string
	MailFrom       string
	FrontendURL    string

	S3Bucket  string
	AWSRegion string

	LogLevel             string
	TournamentStaleAfter time.Duration
	SeedDemo             bool
}

// Load reads the environment. A .env file is only consulted outside production.
func Load() (*Config, error) {
	if !strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		_ = godotenv.Load()
	}

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Secret:         os.Getenv("API_SECRET"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "restaurant_adviser"),
		PlacesAPIKey:   os.Getenv("PLACES_API_KEY"),
		PlacesBaseURL:  getEnv("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		SentimentURL:   os.Getenv("SENTIMENT_URL"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getEnv("MAIL_FROM", "no-reply@restaurantadviser.app"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		S3Bucket:       strings.SplitN(os.Getenv("S3_BUCKET"), "/", 2)[0],
		AWSRegion:      getEnv("AWS_REGION", "us-east-2"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		SeedDemo:       strings.EqualFold(os.Getenv("SEED_DEMO"), "true"),
	}

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = getEnv("API_PORT", "8888")
	}
	if _, err := strconv.Atoi(strings.TrimSpace(cfg.Port)); err != nil {
		return nil, fmt.Errorf("invalid PORT value %q: %w", cfg.Port, err)
	}

	stale, err := time.ParseDuration(getEnv("TOURNAMENT_STALE_AFTER", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOURNAMENT_STALE_AFTER: %w", err)
	}
	cfg.TournamentStaleAfter = stale

	if cfg.IsProduction() && cfg.Secret == "" {
		return nil, fmt.Errorf("API_SECRET must be set in production")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// DSN returns the Postgres connection string. In production DATABASE_URL wins
// and TLS is required.
func (c *Config) DSN() string {
	if c.IsProduction() && c.DatabaseURL != "" {
		dsn := c.DatabaseURL
		if !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}
