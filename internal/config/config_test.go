package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
server:
  port: 9090
  host: "0.0.0.0"
  allowed_origins: ["https://crm.example.com"]

database:
  url: "postgres://crm@localhost/crm?sslmode=disable"
  max_open_conns: 4

redis:
  url: "redis://localhost:6379/0"
  key_prefix: "test"

protected:
  path: "s3://exports/newsletter.txt"
  aws_region: "eu-central-1"

retention:
  scan_enabled: true
  scan_interval_minutes: 60
  scan_action: "delete"

log:
  level: "debug"
  redact_pii: false
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"https://crm.example.com"}, cfg.Server.AllowedOrigins)

	assert.Equal(t, "postgres://crm@localhost/crm?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)

	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "test", cfg.Redis.KeyPrefix)

	assert.Equal(t, "s3://exports/newsletter.txt", cfg.Protected.Path)
	assert.Equal(t, "eu-central-1", cfg.Protected.AWSRegion)

	assert.True(t, cfg.Retention.ScanEnabled)
	assert.Equal(t, 60, cfg.Retention.ScanIntervalMinutes)
	assert.Equal(t, "delete", cfg.Retention.ScanAction)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Redact())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server: {}\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "crm", cfg.Redis.KeyPrefix)
	assert.Equal(t, "newsletter.txt", cfg.Protected.Path)
	assert.Equal(t, 24*60, cfg.Retention.ScanIntervalMinutes)
	assert.Equal(t, "anonymize", cfg.Retention.ScanAction)
	assert.Equal(t, 10, cfg.Retention.LockTTLMinutes)
	assert.Equal(t, 365*24*time.Hour, cfg.Retention.RunHistory())
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "data/plans", cfg.Storage.LocalPath)
	assert.Equal(t, "us-west-2", cfg.Storage.AWSRegion)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Redact())
}

func TestLoadStorage(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
protected:
  aws_region: eu-west-1
storage:
  type: aws
  s3_bucket: gdpr-audit
  s3_prefix: plans
  dynamodb_table: retention-runs
`))
	require.NoError(t, err)

	assert.Equal(t, "aws", cfg.Storage.Type)
	assert.Equal(t, "gdpr-audit", cfg.Storage.S3Bucket)
	assert.Equal(t, "plans", cfg.Storage.S3Prefix)
	assert.Equal(t, "retention-runs", cfg.Storage.DynamoDBTable)
	assert.Equal(t, "eu-west-1", cfg.Storage.AWSRegion)
}

func TestLoadScanScheduleAndWatch(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
protected:
  path: /srv/lists/newsletter.txt
  watch: true
retention:
  scan_enabled: true
  scan_schedule: "0 3 * * *"
  run_history_days: 90
`))
	require.NoError(t, err)

	assert.True(t, cfg.Protected.Watch)
	assert.Equal(t, "0 3 * * *", cfg.Retention.ScanSchedule)
	assert.Equal(t, 24*time.Hour, cfg.Retention.ScanInterval())
	assert.Equal(t, 90*24*time.Hour, cfg.Retention.RunHistory())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	path := writeConfig(t, "database:\n  url: from-file\n")

	t.Setenv("DATABASE_URL", "postgres://env/crm")
	t.Setenv("REDIS_URL", "redis://env:6379")
	t.Setenv("PROTECTED_EMAILS_PATH", "/etc/crm/protected.txt")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/crm", cfg.Database.URL)
	assert.Equal(t, "redis://env:6379", cfg.Redis.URL)
	assert.Equal(t, "/etc/crm/protected.txt", cfg.Protected.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestServerGetHost(t *testing.T) {
	t.Setenv("ECS_CONTAINER_METADATA_URI", "")
	t.Setenv("AWS_EXECUTION_ENV", "")
	t.Setenv("SERVER_HOST", "")
	assert.Equal(t, "127.0.0.1", ServerConfig{Host: "127.0.0.1"}.GetHost())

	t.Setenv("SERVER_HOST", "10.0.0.5")
	assert.Equal(t, "10.0.0.5", ServerConfig{Host: "127.0.0.1"}.GetHost())
}
