package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"todo_api/internal/logger"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Store drivers
const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

type Config struct {
	AppPort     string `toml:"app_port"`
	AppVersion  string `toml:"app_version"`
	StoreDriver string `toml:"store_driver"`
	DatabaseURL string `toml:"database_url"`
	AutoMigrate bool   `toml:"auto_migrate"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	LogLevel string `toml:"log_level"`
	LogJSON  bool   `toml:"log_json"`

	// "*" allows any origin
	AllowedOrigins []string `toml:"allowed_origins"`

	// Agent delegate; an empty API key selects the command delegate
	OpenAIAPIKey      string `toml:"openai_api_key"`
	OpenAIBaseURL     string `toml:"openai_base_url"`
	OpenAIModel       string `toml:"openai_model"`
	AgentMaxSteps     int    `toml:"agent_max_steps"`
	AgentHistoryLimit int    `toml:"agent_history_limit"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		AppPort:     "8080",
		AppVersion:  "dev",
		StoreDriver: StorePostgres,
		LogLevel:    "info",
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
		OpenAIModel:       "gpt-4o-mini",
		AgentMaxSteps:     5,
		AgentHistoryLimit: 20,
	}
}

// Load reads .env, the optional CONFIG_FILE and the environment.
// Invalid configuration terminates the process.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := LoadFrom(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// LoadFrom builds the config from defaults, the TOML file at path (if any)
// and environment overrides, then validates it.
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_PORT"); v != "" {
		cfg.AppPort = v
	}
	if v := os.Getenv("APP_VERSION"); v != "" {
		cfg.AppVersion = v
	}
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		cfg.StoreDriver = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("AUTO_MIGRATE"); v != "" {
		cfg.AutoMigrate = boolFromString(v)
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RedisDB = n
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_JSON"); v != "" {
		cfg.LogJSON = boolFromString(v)
	}

	// comma separated
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitAndTrim(v, ",")
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAIModel = v
	}
	if v := os.Getenv("AGENT_MAX_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AgentMaxSteps = n
		}
	}
	if v := os.Getenv("AGENT_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.AgentHistoryLimit = n
		}
	}
}

// Validate checks driver-specific requirements
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is not set")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.AgentMaxSteps <= 0 {
		return fmt.Errorf("agent_max_steps must be positive")
	}
	return nil
}

// AgentEnabled reports whether the LLM-backed delegate should be used
func (c *Config) AgentEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
