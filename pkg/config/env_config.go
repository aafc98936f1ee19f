// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvironmentConfig contains runtime configuration loaded from BOTARENA_*
// environment variables. It covers the knobs that vary per deployment
// rather than per match: tick pacing, agent liveness policy, and the
// resource limits of the process.
type EnvironmentConfig struct {
	TickRate      int           // simulation ticks per second
	CallbackEvery int           // invoke user tick callback every N ticks
	MaxTicks      uint64        // 0 = unlimited
	AgentTimeout  time.Duration // per-agent response deadline per tick

	// Circuit breaker configuration for agent liveness.
	BreakerMaxConsecutiveFails int
	BreakerInterval            time.Duration
	BreakerTimeout             time.Duration

	// Damage a single agent absorbs before it is destroyed.
	DamageThreshold float64

	// Resource management configuration.
	MaxMemoryMB     int64
	MaxGoroutines   int
	ShutdownTimeout time.Duration
	CheckInterval   time.Duration
}

// LoadConfigFromEnv builds an EnvironmentConfig from environment
// variables, falling back to safe defaults for anything unset.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	cfg := &EnvironmentConfig{
		TickRate:                   getEnvInt("BOTARENA_TICK_RATE", 20),
		CallbackEvery:              getEnvInt("BOTARENA_CALLBACK_EVERY", 1),
		MaxTicks:                   uint64(getEnvInt("BOTARENA_MAX_TICKS", 0)),
		AgentTimeout:               getEnvDuration("BOTARENA_AGENT_TIMEOUT", time.Second),
		BreakerMaxConsecutiveFails: getEnvInt("BOTARENA_BREAKER_MAX_FAILS", 3),
		BreakerInterval:            getEnvDuration("BOTARENA_BREAKER_INTERVAL", 60*time.Second),
		BreakerTimeout:             getEnvDuration("BOTARENA_BREAKER_TIMEOUT", 30*time.Second),
		DamageThreshold:            getEnvFloat("BOTARENA_DAMAGE_THRESHOLD", 100),
		MaxMemoryMB:                int64(getEnvInt("BOTARENA_MAX_MEMORY_MB", 500)),
		MaxGoroutines:              getEnvInt("BOTARENA_MAX_GOROUTINES", 1000),
		ShutdownTimeout:            getEnvDuration("BOTARENA_SHUTDOWN_TIMEOUT", 30*time.Second),
		CheckInterval:              getEnvDuration("BOTARENA_CHECK_INTERVAL", 10*time.Second),
	}

	if err := validateEnvironmentConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment configuration: %w", err)
	}

	return cfg, nil
}

// validateEnvironmentConfig rejects configurations that could stall or
// exhaust the process.
func validateEnvironmentConfig(cfg *EnvironmentConfig) error {
	if cfg.TickRate <= 0 || cfg.TickRate > 1000 {
		return fmt.Errorf("tick rate %d outside [1,1000]", cfg.TickRate)
	}
	if cfg.CallbackEvery <= 0 {
		return fmt.Errorf("callback interval must be positive, got %d", cfg.CallbackEvery)
	}
	if cfg.AgentTimeout <= 0 {
		return fmt.Errorf("agent timeout must be positive, got %v", cfg.AgentTimeout)
	}
	if cfg.BreakerMaxConsecutiveFails <= 0 {
		return fmt.Errorf("breaker max consecutive fails must be positive, got %d",
			cfg.BreakerMaxConsecutiveFails)
	}
	if cfg.BreakerInterval <= 0 || cfg.BreakerTimeout <= 0 {
		return fmt.Errorf("breaker interval and timeout must be positive, got %v and %v",
			cfg.BreakerInterval, cfg.BreakerTimeout)
	}
	if cfg.DamageThreshold <= 0 {
		return fmt.Errorf("damage threshold must be positive, got %v", cfg.DamageThreshold)
	}
	if cfg.MaxMemoryMB <= 0 {
		return fmt.Errorf("max memory must be positive, got %d", cfg.MaxMemoryMB)
	}
	if cfg.MaxGoroutines <= 0 {
		return fmt.Errorf("max goroutines must be positive, got %d", cfg.MaxGoroutines)
	}
	if cfg.ShutdownTimeout <= 0 || cfg.CheckInterval <= 0 {
		return fmt.Errorf("shutdown timeout and check interval must be positive, got %v and %v",
			cfg.ShutdownTimeout, cfg.CheckInterval)
	}
	return nil
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
