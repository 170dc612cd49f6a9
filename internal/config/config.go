package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// AuthConfig holds the key clients send in X-API-Key. It may be left empty
// only when the server listens on the tailnet.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// KafkaConfig enables publishing announcement events. When disabled, events
// are written to the log instead.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix PULSEFIT_ and underscore-separated paths:
//
//	PULSEFIT_SERVER_HOST, PULSEFIT_SERVER_PORT,
//	PULSEFIT_DB_HOST, PULSEFIT_DB_PORT, PULSEFIT_DB_NAME,
//	PULSEFIT_DB_USER, PULSEFIT_DB_PASSWORD, PULSEFIT_DB_SSLMODE,
//	PULSEFIT_AUTH_API_KEY,
//	PULSEFIT_TAILSCALE_ENABLED, PULSEFIT_TAILSCALE_HOSTNAME, PULSEFIT_TAILSCALE_STATE_DIR,
//	PULSEFIT_KAFKA_ENABLED, PULSEFIT_KAFKA_BROKERS (comma-separated), PULSEFIT_KAFKA_TOPIC,
//	PULSEFIT_METRICS_ENABLED, PULSEFIT_METRICS_PATH
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Tailscale: TailscaleConfig{Hostname: "pulsefit", StateDir: "tsnet-state"},
		Kafka:     KafkaConfig{Topic: "pulsefit.events"},
		Metrics:   MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString("PULSEFIT_SERVER_HOST", &cfg.Server.Host)
	setInt("PULSEFIT_SERVER_PORT", &cfg.Server.Port)

	setString("PULSEFIT_DB_HOST", &cfg.Database.Host)
	setInt("PULSEFIT_DB_PORT", &cfg.Database.Port)
	setString("PULSEFIT_DB_NAME", &cfg.Database.Name)
	setString("PULSEFIT_DB_USER", &cfg.Database.User)
	setString("PULSEFIT_DB_PASSWORD", &cfg.Database.Password)
	setString("PULSEFIT_DB_SSLMODE", &cfg.Database.SSLMode)

	setString("PULSEFIT_AUTH_API_KEY", &cfg.Auth.APIKey)

	setBool("PULSEFIT_TAILSCALE_ENABLED", &cfg.Tailscale.Enabled)
	setString("PULSEFIT_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	setString("PULSEFIT_TAILSCALE_STATE_DIR", &cfg.Tailscale.StateDir)

	setBool("PULSEFIT_KAFKA_ENABLED", &cfg.Kafka.Enabled)
	if v := os.Getenv("PULSEFIT_KAFKA_BROKERS"); v != "" {
		var brokers []string
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		cfg.Kafka.Brokers = brokers
	}
	setString("PULSEFIT_KAFKA_TOPIC", &cfg.Kafka.Topic)

	setBool("PULSEFIT_METRICS_ENABLED", &cfg.Metrics.Enabled)
	setString("PULSEFIT_METRICS_PATH", &cfg.Metrics.Path)
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" && !c.Tailscale.Enabled {
		return fmt.Errorf("auth.api_key is required unless tailscale is enabled")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers is required when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when kafka is enabled")
		}
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}
	return nil
}
