package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "roamguide.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "ROAMGUIDE_PORT")
	setString(&cfg.Server.CORSOrigin, "ROAMGUIDE_CORS_ORIGIN")
	setString(&cfg.Logging.Level, "ROAMGUIDE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "ROAMGUIDE_LOG_SERVICE")
	setDuration(&cfg.Session.TTL, "ROAMGUIDE_SESSION_TTL")
	setDuration(&cfg.Session.SweepInterval, "ROAMGUIDE_SESSION_SWEEP_INTERVAL")
	setDuration(&cfg.Rate.Window, "ROAMGUIDE_RATE_WINDOW")
	setInt(&cfg.Rate.MaxRequests, "ROAMGUIDE_RATE_MAX_REQUESTS")
	setDuration(&cfg.Rate.CleanupInterval, "ROAMGUIDE_RATE_CLEANUP_INTERVAL")
	setString(&cfg.LLM.URL, "ROAMGUIDE_LLM_URL")
	setString(&cfg.LLM.APIKey, "ROAMGUIDE_LLM_API_KEY")
	setString(&cfg.LLM.Model, "ROAMGUIDE_LLM_MODEL")
	setString(&cfg.Catalog.URL, "ROAMGUIDE_CATALOG_URL")
	setInt64(&cfg.Catalog.CacheSizeMB, "ROAMGUIDE_CATALOG_CACHE_SIZE_MB")
	setDuration(&cfg.Catalog.CacheTTL, "ROAMGUIDE_CATALOG_CACHE_TTL")
	setString(&cfg.Usage.URL, "ROAMGUIDE_USAGE_URL")
	setInt(&cfg.Breaker.MaxFailures, "ROAMGUIDE_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Cooldown, "ROAMGUIDE_BREAKER_COOLDOWN")
	setInt(&cfg.Agent.MaxResumeRounds, "ROAMGUIDE_AGENT_MAX_RESUME_ROUNDS")
	setDuration(&cfg.Agent.RunTimeout, "ROAMGUIDE_AGENT_RUN_TIMEOUT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Session.TTL <= 0 {
		return errors.New("session.ttl must be > 0")
	}
	if cfg.Rate.Window <= 0 {
		return errors.New("rate.window must be > 0")
	}
	if cfg.Rate.MaxRequests < 1 {
		return errors.New("rate.max_requests must be >= 1")
	}
	if cfg.LLM.URL == "" {
		return errors.New("llm.url is required")
	}
	if cfg.Agent.MaxResumeRounds < 1 {
		return errors.New("agent.max_resume_rounds must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
