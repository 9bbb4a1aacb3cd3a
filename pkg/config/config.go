package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORS            bool          `yaml:"cors"`
	} `yaml:"server"`
	Metrics struct {
		Enabled       bool          `yaml:"enabled"`
		Path          string        `yaml:"path"`
		SlowThreshold time.Duration `yaml:"slow_threshold"`
	} `yaml:"metrics"`
	Logger struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logger"`
	Dataset struct {
		Path string `yaml:"path"`
	} `yaml:"dataset"`
	Outliers struct {
		DefaultK     float64 `yaml:"default_k"`
		PreviewLimit int     `yaml:"preview_limit"`
	} `yaml:"outliers"`
	Sessions struct {
		Backend       string        `yaml:"backend"`
		TTL           time.Duration `yaml:"ttl"`
		LockTTL       time.Duration `yaml:"lock_ttl"`
		MemoryMaxSize int           `yaml:"memory_max_size"`
		Redis         struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"sessions"`
	Chat struct {
		RateLimit struct {
			Capacity     float64 `yaml:"capacity"`
			RefillPerSec float64 `yaml:"refill_per_sec"`
		} `yaml:"rate_limit"`
	} `yaml:"chat"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes, fills defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATASET_PATH"); v != "" {
		c.Dataset.Path = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SERVER_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("SESSION_BACKEND"); v != "" {
		c.Sessions.Backend = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Sessions.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Sessions.Redis.Password = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Redacted returns a copy of c that is safe to print.
func (c *Config) Redacted() Config {
	out := *c
	if out.Sessions.Redis.Password != "" {
		out.Sessions.Redis.Password = "REDACTED"
	}
	return out
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "json"
	}
	if c.Logger.Output == "" {
		c.Logger.Output = "stdout"
	}
	if c.Dataset.Path == "" {
		c.Dataset.Path = "financial_transactions.csv"
	}
	if c.Outliers.DefaultK == 0 {
		c.Outliers.DefaultK = 1.5
	}
	if c.Outliers.PreviewLimit == 0 {
		c.Outliers.PreviewLimit = 20
	}
	if c.Sessions.Backend == "" {
		c.Sessions.Backend = "memory"
	}
	if c.Sessions.TTL == 0 {
		c.Sessions.TTL = 24 * time.Hour
	}
	if c.Sessions.LockTTL == 0 {
		c.Sessions.LockTTL = 5 * time.Second
	}
	if c.Sessions.MemoryMaxSize == 0 {
		c.Sessions.MemoryMaxSize = 1000
	}
	if c.Sessions.Redis.Port == 0 {
		c.Sessions.Redis.Port = 6379
	}
	if c.Sessions.Redis.Prefix == "" {
		c.Sessions.Redis.Prefix = "findash"
	}
	if c.Chat.RateLimit.Capacity == 0 {
		c.Chat.RateLimit.Capacity = 10
	}
	if c.Chat.RateLimit.RefillPerSec == 0 {
		c.Chat.RateLimit.RefillPerSec = 2
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if c.Outliers.DefaultK < 0.5 || c.Outliers.DefaultK > 3 {
		return fmt.Errorf("outliers.default_k must be in 0.5..3, got %v", c.Outliers.DefaultK)
	}
	if c.Outliers.PreviewLimit < 1 || c.Outliers.PreviewLimit > 5000 {
		return fmt.Errorf("outliers.preview_limit must be in 1..5000, got %d", c.Outliers.PreviewLimit)
	}
	switch c.Sessions.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("sessions.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Sessions.Backend)
	}
	if c.Sessions.Backend != "memory" && c.Sessions.Redis.Host == "" {
		return fmt.Errorf("sessions.redis.host is required for the %s backend", c.Sessions.Backend)
	}
	if c.Chat.RateLimit.Capacity < 1 {
		return fmt.Errorf("chat.rate_limit.capacity must be at least 1")
	}
	return nil
}
