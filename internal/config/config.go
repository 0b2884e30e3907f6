// Package config loads the arbiter service configuration. Environment
// variables are the primary source; an optional YAML file (ARBITER_CONFIG)
// is read first and then overridden by the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"dev.caws.arbiter/internal/adjudication"
)

// Config is the full service configuration.
type Config struct {
	Server       ServerConfig        `yaml:"server"`
	Adjudication adjudication.Config `yaml:"adjudication"`
	Archive      ArchiveConfig       `yaml:"archive"`
	Signing      SigningConfig       `yaml:"signing"`
	LogLevel     string              `yaml:"log_level"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// ArchiveConfig configures verdict persistence.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// SigningConfig configures provenance signing. SeedHex, when set, derives
// a deterministic Ed25519 key; otherwise a fresh key is generated at boot.
type SigningConfig struct {
	SeedHex string `yaml:"seed_hex"`
}

// Load builds the configuration from the optional YAML file named by
// ARBITER_CONFIG, then applies environment overrides.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8418",
		},
		Adjudication: adjudication.DefaultConfig(),
		Archive: ArchiveConfig{
			Path: "arbiter.db",
		},
		LogLevel: "info",
	}

	if path := os.Getenv("ARBITER_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Server.Host = getEnv("ARBITER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("ARBITER_PORT", cfg.Server.Port)
	cfg.Archive.Path = getEnv("ARBITER_DB_PATH", cfg.Archive.Path)
	cfg.Signing.SeedHex = getEnv("ARBITER_SIGNING_SEED", cfg.Signing.SeedHex)
	cfg.LogLevel = getEnv("ARBITER_LOG_LEVEL", cfg.LogLevel)

	cfg.Adjudication.MaxAdjudicationTime = getEnvDuration(
		"ARBITER_MAX_ADJUDICATION_TIME", cfg.Adjudication.MaxAdjudicationTime)
	cfg.Adjudication.EnableClaimExtraction = getEnvBool(
		"ARBITER_ENABLE_CLAIM_EXTRACTION", cfg.Adjudication.EnableClaimExtraction)
	cfg.Adjudication.EnableDebateProtocol = getEnvBool(
		"ARBITER_ENABLE_DEBATE", cfg.Adjudication.EnableDebateProtocol)
	cfg.Adjudication.MaxDebateRounds = getEnvInt(
		"ARBITER_MAX_DEBATE_ROUNDS", cfg.Adjudication.MaxDebateRounds)
	cfg.Adjudication.MinVerdictConfidence = getEnvFloat(
		"ARBITER_MIN_VERDICT_CONFIDENCE", cfg.Adjudication.MinVerdictConfidence)

	cfg.Adjudication = cfg.Adjudication.Normalize()
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		// Bare integers are read as seconds, matching the documented
		// max_adjudication_time_seconds knob.
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
