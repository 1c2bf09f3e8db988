// Package config provides hierarchical configuration loading for RoamGuide.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the RoamGuide service.
type Config struct {
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
	Session Session `yaml:"session"`
	Rate    Rate    `yaml:"rate"`
	LLM     LLM     `yaml:"llm"`
	Catalog Catalog `yaml:"catalog"`
	Usage   Usage   `yaml:"usage"`
	Breaker Breaker `yaml:"breaker"`
	Agent   Agent   `yaml:"agent"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Session holds conversation session lifecycle configuration.
type Session struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Rate holds the fixed-window rate limiter configuration.
type Rate struct {
	Window          time.Duration `yaml:"window"`
	MaxRequests     int           `yaml:"max_requests"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// LLM holds the OpenAI-compatible completion service configuration.
type LLM struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Catalog holds the roaming-plan catalog service configuration.
type Catalog struct {
	URL         string        `yaml:"url"`
	CacheSizeMB int64         `yaml:"cache_size_mb"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// Usage holds the billing/usage backend configuration.
type Usage struct {
	URL string `yaml:"url"`
}

// Breaker holds circuit breaker configuration for outbound HTTP calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Cooldown    time.Duration `yaml:"cooldown"`
}

// Agent holds reasoning-layer execution configuration.
type Agent struct {
	MaxResumeRounds int           `yaml:"max_resume_rounds"`
	RunTimeout      time.Duration `yaml:"run_timeout"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "8080",
			CORSOrigin: "http://localhost:3000",
		},
		Logging: Logging{
			Level:   "info",
			Service: "roamguide",
		},
		Session: Session{
			TTL:           30 * time.Minute,
			SweepInterval: 5 * time.Minute,
		},
		Rate: Rate{
			Window:          60 * time.Second,
			MaxRequests:     10,
			CleanupInterval: 10 * time.Minute,
		},
		LLM: LLM{
			URL:   "http://localhost:4000/v1",
			Model: "gpt-4o-mini",
		},
		Catalog: Catalog{
			URL:         "http://localhost:8091",
			CacheSizeMB: 16,
			CacheTTL:    15 * time.Minute,
		},
		Usage: Usage{
			URL: "http://localhost:8092",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Cooldown:    30 * time.Second,
		},
		Agent: Agent{
			MaxResumeRounds: 8,
			RunTimeout:      60 * time.Second,
		},
	}
}
