package config

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata" // zone data for slim container images

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		StoragePath    string   `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		PublicURL      string   `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Push struct {
		ExpoURL     string `yaml:"expo_url" env:"PUSH_EXPO_URL"`
		AccessToken string `yaml:"access_token" env:"PUSH_ACCESS_TOKEN"`
		Timeout     string `yaml:"timeout" env:"PUSH_TIMEOUT"`
		BatchSize   int    `yaml:"batch_size" env:"PUSH_BATCH_SIZE"`
	} `yaml:"push"`

	Outbox struct {
		PollInterval string `yaml:"poll_interval" env:"OUTBOX_POLL_INTERVAL"`
		BatchSize    int    `yaml:"batch_size" env:"OUTBOX_BATCH_SIZE"`
		MaxAttempts  int    `yaml:"max_attempts" env:"OUTBOX_MAX_ATTEMPTS"`
		BaseBackoff  string `yaml:"base_backoff" env:"OUTBOX_BASE_BACKOFF"`
	} `yaml:"outbox"`

	Scheduler struct {
		Timezone       string `yaml:"timezone" env:"SCHEDULER_TIMEZONE"`
		CompletionSpec string `yaml:"completion_spec" env:"SCHEDULER_COMPLETION_SPEC"`
		ReminderLead   string `yaml:"reminder_lead" env:"SCHEDULER_REMINDER_LEAD"`
	} `yaml:"scheduler"`

	Redis struct {
		Addr      string `yaml:"addr" env:"REDIS_ADDR"`
		Password  string `yaml:"password" env:"REDIS_PASSWORD"`
		DB        int    `yaml:"db" env:"REDIS_DB"`
		DedupeTTL string `yaml:"dedupe_ttl" env:"REDIS_DEDUPE_TTL"`
	} `yaml:"redis"`

	Email struct {
		SendgridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
		FromName       string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
		FromEmail      string `yaml:"from_email" env:"EMAIL_FROM_ADDRESS"`
	} `yaml:"email"`

	Seed struct {
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
		AdminName     string `yaml:"admin_name" env:"SEED_ADMIN_NAME"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file, the optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.PublicURL = "http://localhost:8080"
	config.Server.AllowedOrigins = []string{"*"}

	config.Database.Driver = "postgres"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "academy"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "academy.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Push.ExpoURL = "https://exp.host/--/api/v2/push/send"
	config.Push.Timeout = "10s"
	config.Push.BatchSize = 100

	config.Outbox.PollInterval = "30s"
	config.Outbox.BatchSize = 20
	config.Outbox.MaxAttempts = 5
	config.Outbox.BaseBackoff = "30s"

	config.Scheduler.Timezone = "UTC"
	config.Scheduler.CompletionSpec = "@every 1m"
	config.Scheduler.ReminderLead = "15m"

	config.Redis.DedupeTTL = "10s"

	config.Email.FromName = "Academy"
	config.Email.FromEmail = "no-reply@academy.app"

	config.Seed.AdminName = "Administrator"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"jwt.access_token_expiration": config.JWT.AccessTokenExpiration,
		"database.conn_max_lifetime":  config.Database.ConnMaxLifetime,
		"push.timeout":                config.Push.Timeout,
		"outbox.poll_interval":        config.Outbox.PollInterval,
		"outbox.base_backoff":         config.Outbox.BaseBackoff,
		"scheduler.reminder_lead":     config.Scheduler.ReminderLead,
		"redis.dedupe_ttl":            config.Redis.DedupeTTL,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s duration: %w", name, err)
		}
	}

	if _, err := time.LoadLocation(config.Scheduler.Timezone); err != nil {
		return fmt.Errorf("invalid scheduler timezone: %w", err)
	}

	if config.Push.BatchSize <= 0 || config.Push.BatchSize > 100 {
		return fmt.Errorf("push batch size must be between 1 and 100")
	}

	if config.Outbox.MaxAttempts <= 0 {
		return fmt.Errorf("outbox max attempts must be positive")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// Location returns the timezone used to interpret admin-entered dates and times
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
