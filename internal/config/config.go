package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Protected ProtectedConfig `yaml:"protected"`
	Retention RetentionConfig `yaml:"retention"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds the PostgreSQL cache of CRM records
type DatabaseConfig struct {
	URL             string `yaml:"url"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime_minutes"`
}

// ConnLifetime returns the connection lifetime as a duration
func (c DatabaseConfig) ConnLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetime) * time.Minute
}

// RedisConfig holds the shared Redis used for the protected set and run lock.
// An empty URL disables Redis; the service then falls back to in-process
// state and PostgreSQL advisory locks.
type RedisConfig struct {
	URL       string `yaml:"url"`
	KeyPrefix string `yaml:"key_prefix"`
}

// ProtectedConfig says where the protected-email allow-list comes from.
// Path may be a local file, an s3://bucket/key URL or an http(s) URL.
// Watch reloads a local file as soon as it changes.
type ProtectedConfig struct {
	Path       string `yaml:"path"`
	AWSRegion  string `yaml:"aws_region"`
	AWSProfile string `yaml:"aws_profile"`
	Watch      bool   `yaml:"watch"`
}

// RetentionConfig holds the periodic retention scan settings. A cron
// ScanSchedule takes precedence over ScanIntervalMinutes.
type RetentionConfig struct {
	ScanEnabled         bool   `yaml:"scan_enabled"`
	ScanSchedule        string `yaml:"scan_schedule"`
	ScanIntervalMinutes int    `yaml:"scan_interval_minutes"`
	ScanAction          string `yaml:"scan_action"`
	LockTTLMinutes      int    `yaml:"lock_ttl_minutes"`
	RunHistoryDays      int    `yaml:"run_history_days"`
}

// ScanInterval returns the scan interval as a duration
func (c RetentionConfig) ScanInterval() time.Duration {
	return time.Duration(c.ScanIntervalMinutes) * time.Minute
}

// LockTTL returns the run lock TTL as a duration
func (c RetentionConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLMinutes) * time.Minute
}

// RunHistory returns how long run summaries are kept
func (c RetentionConfig) RunHistory() time.Duration {
	return time.Duration(c.RunHistoryDays) * 24 * time.Hour
}

// StorageConfig says where computed plans are archived. Type is "none",
// "local" (JSON files under LocalPath) or "aws" (S3, with run summaries in
// DynamoDB when a table is set).
type StorageConfig struct {
	Type          string `yaml:"type"`
	LocalPath     string `yaml:"local_path"`
	S3Bucket      string `yaml:"s3_bucket"`
	S3Prefix      string `yaml:"s3_prefix"`
	DynamoDBTable string `yaml:"dynamodb_table"`
	AWSRegion     string `yaml:"aws_region"`
	AWSProfile    string `yaml:"aws_profile"` // Empty string uses default credential chain
}

// LogConfig holds logger settings
type LogConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// Redact reports whether PII redaction is on; it defaults to true.
func (c LogConfig) Redact() bool {
	return c.RedactPII == nil || *c.RedactPII
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.setDefaults()
	return &cfg, nil
}

func (cfg *Config) setDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "crm"
	}
	if cfg.Protected.Path == "" {
		cfg.Protected.Path = "newsletter.txt"
	}
	if cfg.Protected.AWSRegion == "" {
		cfg.Protected.AWSRegion = "us-west-2"
	}
	if cfg.Retention.ScanIntervalMinutes == 0 {
		cfg.Retention.ScanIntervalMinutes = 24 * 60
	}
	if cfg.Retention.ScanAction == "" {
		cfg.Retention.ScanAction = "anonymize"
	}
	if cfg.Retention.LockTTLMinutes == 0 {
		cfg.Retention.LockTTLMinutes = 10
	}
	if cfg.Retention.RunHistoryDays == 0 {
		cfg.Retention.RunHistoryDays = 365
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.LocalPath == "" {
		cfg.Storage.LocalPath = "data/plans"
	}
	if cfg.Storage.AWSRegion == "" {
		cfg.Storage.AWSRegion = cfg.Protected.AWSRegion
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("PROTECTED_EMAILS_PATH"); v != "" {
		cfg.Protected.Path = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Protected.AWSRegion = v
	}
	if v := os.Getenv("STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("ARCHIVE_S3_BUCKET"); v != "" {
		cfg.Storage.S3Bucket = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg, nil
}
