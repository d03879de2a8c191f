package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingSetting is returned when a required setting has no value.
	ErrMissingSetting = errors.New("missing required setting")
	// ErrInvalidSetting is returned when a setting is out of range.
	ErrInvalidSetting = errors.New("invalid setting")
)

type Config struct {
	Xano     XanoConfig     `yaml:"xano"`
	Webflow  WebflowConfig  `yaml:"webflow"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Sync     SyncConfig     `yaml:"sync"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	LogLevel string         `yaml:"log_level"`
}

type XanoConfig struct {
	BaseURL     string        `yaml:"base_url"`
	MetadataURL string        `yaml:"metadata_url"`
	WorkspaceID int64         `yaml:"workspace_id"`
	Table       string        `yaml:"table"`
	Timeout     time.Duration `yaml:"timeout"`
	Retry       RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

type WebflowConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Token        string        `yaml:"token"`
	CollectionID string        `yaml:"collection_id"`
	Timeout      time.Duration `yaml:"timeout"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// Enabled reports whether a sync run ledger database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

// Enabled reports whether sync events should be published.
func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

type SyncConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads the YAML config at path, expanding ${VAR} references, then fills
// empty settings from the environment. A missing file is not an error so the
// tool can run from environment variables alone.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg.applyEnv()
	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) applyEnv() {
	envOr(&c.Xano.BaseURL, "XANO_API_BASE_URL")
	envOr(&c.Xano.MetadataURL, "XANO_METADATA_URL")
	envOr(&c.Webflow.Token, "WEBFLOW_API_TOKEN")
	envOr(&c.Webflow.CollectionID, "WEBFLOW_COLLECTION_ID")
	envOr(&c.RabbitMQ.URL, "RABBITMQ_URL")
	envOr(&c.LogLevel, "LOG_LEVEL")
}

func envOr(dst *string, key string) {
	if *dst == "" {
		*dst = os.Getenv(key)
	}
}

func (c *Config) setDefaults() {
	if c.Xano.Table == "" {
		c.Xano.Table = "stories"
	}
	if c.Xano.Timeout == 0 {
		c.Xano.Timeout = 30 * time.Second
	}
	// A single attempt unless retries are asked for.
	if c.Xano.Retry.MaxAttempts == 0 {
		c.Xano.Retry.MaxAttempts = 1
	}
	if c.Xano.Retry.InitialBackoff == 0 {
		c.Xano.Retry.InitialBackoff = 1 * time.Second
	}
	if c.Xano.Retry.MaxBackoff == 0 {
		c.Xano.Retry.MaxBackoff = 30 * time.Second
	}
	if c.Webflow.BaseURL == "" {
		c.Webflow.BaseURL = "https://api.webflow.com/v2"
	}
	if c.Webflow.Timeout == 0 {
		c.Webflow.Timeout = 30 * time.Second
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "story_sync"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "stories"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "webflow_synced_stories"
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 5 * time.Minute
	}
	if c.Sync.Timeout == 0 {
		c.Sync.Timeout = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ValidateSync checks the settings needed to push stories to the CMS.
func (c *Config) ValidateSync() error {
	return requireSettings(map[string]string{
		"XANO_API_BASE_URL":     c.Xano.BaseURL,
		"WEBFLOW_API_TOKEN":     c.Webflow.Token,
		"WEBFLOW_COLLECTION_ID": c.Webflow.CollectionID,
	})
}

// ValidateWebflow checks the settings needed to read the CMS collection.
func (c *Config) ValidateWebflow() error {
	return requireSettings(map[string]string{
		"WEBFLOW_API_TOKEN":     c.Webflow.Token,
		"WEBFLOW_COLLECTION_ID": c.Webflow.CollectionID,
	})
}

// ValidateMetadata checks the settings needed by the provisioning commands.
func (c *Config) ValidateMetadata() error {
	return requireSettings(map[string]string{
		"XANO_METADATA_URL": c.Xano.MetadataURL,
	})
}

// ValidateSchedule checks the settings used by watch mode.
func (c *Config) ValidateSchedule() error {
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("%w: sync.interval must be positive, got %s", ErrInvalidSetting, c.Sync.Interval)
	}
	if c.Sync.Timeout <= 0 {
		return fmt.Errorf("%w: sync.timeout must be positive, got %s", ErrInvalidSetting, c.Sync.Timeout)
	}
	return nil
}

var settingOrder = []string{
	"XANO_API_BASE_URL",
	"XANO_METADATA_URL",
	"WEBFLOW_API_TOKEN",
	"WEBFLOW_COLLECTION_ID",
}

func requireSettings(settings map[string]string) error {
	for _, key := range settingOrder {
		v, ok := settings[key]
		if ok && v == "" {
			return fmt.Errorf("%w: %s", ErrMissingSetting, key)
		}
	}
	return nil
}
