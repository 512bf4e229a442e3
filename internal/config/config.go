package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Auth    AuthConfig
	Log     LogConfig
	CORS    CORSConfig
	Match   MatchConfig
	Queue   QueueConfig
	Email   EmailConfig
	Archive ArchiveConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AuthConfig holds service-token verification settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MatchConfig holds default match tolerances and urgency thresholds. Vendor
// tolerance rows override the two tolerance percents per vendor.
type MatchConfig struct {
	PriceTolerancePercent    float64 `mapstructure:"price_tolerance_percent"`
	QuantityTolerancePercent float64 `mapstructure:"quantity_tolerance_percent"`
	UrgentDueDays            int     `mapstructure:"urgent_due_days"`
	UrgentAmountThreshold    float64 `mapstructure:"urgent_amount_threshold"`
}

// QueueConfig holds match queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	Concurrency      int `mapstructure:"concurrency"`
}

// EmailConfig holds review notification delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	ReviewersTo string `mapstructure:"reviewers_to"`
}

// ArchiveConfig holds trace audit archive settings. An empty bucket disables
// archiving.
type ArchiveConfig struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Load reads configuration from environment variables with the TRIMATCH_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRIMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "trimatch")
	v.SetDefault("db.password", "trimatch_secret")
	v.SetDefault("db.name", "trimatch_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.issuer", "trimatch")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Match defaults
	v.SetDefault("match.price_tolerance_percent", 2.0)
	v.SetDefault("match.quantity_tolerance_percent", 5.0)
	v.SetDefault("match.urgent_due_days", 3)
	v.SetDefault("match.urgent_amount_threshold", 100000.0)

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.concurrency", 5)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@trimatch.local")
	v.SetDefault("email.from_name", "TriMatch")
	v.SetDefault("email.reviewers_to", "")

	// Archive defaults (disabled unless a bucket is configured)
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.endpoint", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "TRIMATCH_SERVER_PORT",
		"server.read_timeout":              "TRIMATCH_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "TRIMATCH_SERVER_WRITE_TIMEOUT",
		"server.environment":               "TRIMATCH_SERVER_ENVIRONMENT",
		"db.host":                          "TRIMATCH_DB_HOST",
		"db.port":                          "TRIMATCH_DB_PORT",
		"db.user":                          "TRIMATCH_DB_USER",
		"db.password":                      "TRIMATCH_DB_PASSWORD",
		"db.name":                          "TRIMATCH_DB_NAME",
		"db.sslmode":                       "TRIMATCH_DB_SSLMODE",
		"db.max_open":                      "TRIMATCH_DB_MAX_OPEN",
		"db.max_idle":                      "TRIMATCH_DB_MAX_IDLE",
		"auth.jwt_secret":                  "TRIMATCH_AUTH_JWT_SECRET",
		"auth.issuer":                      "TRIMATCH_AUTH_ISSUER",
		"log.level":                        "TRIMATCH_LOG_LEVEL",
		"log.format":                       "TRIMATCH_LOG_FORMAT",
		"cors.allowed_origins":             "TRIMATCH_CORS_ALLOWED_ORIGINS",
		"match.price_tolerance_percent":    "TRIMATCH_MATCH_PRICE_TOLERANCE_PERCENT",
		"match.quantity_tolerance_percent": "TRIMATCH_MATCH_QUANTITY_TOLERANCE_PERCENT",
		"match.urgent_due_days":            "TRIMATCH_MATCH_URGENT_DUE_DAYS",
		"match.urgent_amount_threshold":    "TRIMATCH_MATCH_URGENT_AMOUNT_THRESHOLD",
		"queue.poll_interval_secs":         "TRIMATCH_QUEUE_POLL_INTERVAL_SECS",
		"queue.concurrency":                "TRIMATCH_QUEUE_CONCURRENCY",
		"email.provider":                   "TRIMATCH_EMAIL_PROVIDER",
		"email.region":                     "TRIMATCH_EMAIL_REGION",
		"email.from_address":               "TRIMATCH_EMAIL_FROM_ADDRESS",
		"email.from_name":                  "TRIMATCH_EMAIL_FROM_NAME",
		"email.reviewers_to":               "TRIMATCH_EMAIL_REVIEWERS_TO",
		"archive.region":                   "TRIMATCH_ARCHIVE_REGION",
		"archive.bucket":                   "TRIMATCH_ARCHIVE_BUCKET",
		"archive.endpoint":                 "TRIMATCH_ARCHIVE_ENDPOINT",
		"archive.access_key":               "TRIMATCH_ARCHIVE_ACCESS_KEY",
		"archive.secret_key":               "TRIMATCH_ARCHIVE_SECRET_KEY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TRIMATCH_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TRIMATCH_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Auth = AuthConfig{
		JWTSecret: v.GetString("auth.jwt_secret"),
		Issuer:    v.GetString("auth.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Match = MatchConfig{
		PriceTolerancePercent:    v.GetFloat64("match.price_tolerance_percent"),
		QuantityTolerancePercent: v.GetFloat64("match.quantity_tolerance_percent"),
		UrgentDueDays:            v.GetInt("match.urgent_due_days"),
		UrgentAmountThreshold:    v.GetFloat64("match.urgent_amount_threshold"),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		ReviewersTo: v.GetString("email.reviewers_to"),
	}
	cfg.Archive = ArchiveConfig{
		Region:    v.GetString("archive.region"),
		Bucket:    v.GetString("archive.bucket"),
		Endpoint:  v.GetString("archive.endpoint"),
		AccessKey: v.GetString("archive.access_key"),
		SecretKey: v.GetString("archive.secret_key"),
	}

	return cfg, nil
}
