package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Sources   SourcesConfig   `yaml:"sources"`
	S3        S3Config        `yaml:"s3"`
	Sync      SyncConfig      `yaml:"sync"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// GetHost returns the server host, with ECS detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds the Postgres connection settings
type DatabaseConfig struct {
	URL                    string `yaml:"url"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// ConnMaxLifetime returns the pool connection lifetime as a duration
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// RedisConfig holds the Redis connection used for distributed locks.
// An empty URL disables Redis; locks then fall back to Postgres.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// SourcesConfig holds the local source files for a sync. Empty paths are
// located by file name inside DownloadsDir.
type SourcesConfig struct {
	CreativeSheetPath string `yaml:"creative_sheet_path"`
	MetaSeedPath      string `yaml:"meta_seed_csv_path"`
	CreativeSeedPath  string `yaml:"creative_seed_csv_path"`
	DownloadsDir      string `yaml:"downloads_dir"`
}

// S3Config holds settings for s3:// source paths
type S3Config struct {
	Region          string `yaml:"region"`
	AWSProfile      string `yaml:"aws_profile"` // Empty string uses default credential chain
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// GetAWSProfile returns the AWS profile, with environment variable override
func (c S3Config) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return ""
		}
		return envProfile
	}
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return ""
	}
	return c.AWSProfile
}

// SyncConfig holds scheduled sync settings
type SyncConfig struct {
	CronExpression string `yaml:"cron_expression"`
	LockTTLMinutes int    `yaml:"lock_ttl_minutes"`
	SnapshotDate   string `yaml:"snapshot_date"` // YYYY-MM-DD; empty means today
	RunOnStart     bool   `yaml:"run_on_start"`
}

// LockTTL returns the distributed lock TTL as a duration
func (c SyncConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLMinutes) * time.Minute
}

// ReconcileConfig holds reconciliation engine settings
type ReconcileConfig struct {
	Workers            int    `yaml:"workers"`
	DefaultProduct     string `yaml:"default_product"`
	SeedAdNameTemplate string `yaml:"seed_ad_name_template"`
}

// LoggingConfig holds structured logger settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Redact *bool  `yaml:"redact"`
}

// RedactEnabled reports whether secret redaction is on (default true).
func (c LoggingConfig) RedactEnabled() bool {
	return c.Redact == nil || *c.Redact
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

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = "postgres://localhost:5432/creative_analytics?sslmode=disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetimeMinutes == 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 5
	}
	if cfg.Sources.DownloadsDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Sources.DownloadsDir = filepath.Join(home, "Downloads")
		}
	}
	if cfg.S3.Region == "" {
		cfg.S3.Region = "us-east-1"
	}
	if cfg.Sync.CronExpression == "" {
		cfg.Sync.CronExpression = "0 */6 * * *"
	}
	if cfg.Sync.LockTTLMinutes == 0 {
		cfg.Sync.LockTTLMinutes = 30
	}
	if cfg.Reconcile.Workers == 0 {
		cfg.Reconcile.Workers = 8
	}
	if cfg.Reconcile.DefaultProduct == "" {
		cfg.Reconcile.DefaultProduct = "AP"
	}
	if cfg.Reconcile.SeedAdNameTemplate == "" {
		cfg.Reconcile.SeedAdNameTemplate = "A100 | {{ creative_id }} | C100 | P:AP"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so local
// paths and credentials can live in .env during development.
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
	if v := os.Getenv("CREATIVE_SHEET_PATH"); v != "" {
		cfg.Sources.CreativeSheetPath = v
	}
	if v := os.Getenv("META_SEED_CSV_PATH"); v != "" {
		cfg.Sources.MetaSeedPath = v
	}
	if v := os.Getenv("CREATIVE_SEED_CSV_PATH"); v != "" {
		cfg.Sources.CreativeSeedPath = v
	}
	if v := os.Getenv("SYNC_SNAPSHOT_DATE"); v != "" {
		cfg.Sync.SnapshotDate = v
	}
	if v := os.Getenv("SYNC_CRON_EXPRESSION"); v != "" {
		cfg.Sync.CronExpression = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.S3.Region = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RECONCILE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Reconcile.Workers = n
		}
	}

	return cfg, nil
}
