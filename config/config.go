package config

import (
	"fmt"
	"time"
)

// Config is the complete chainflow configuration.
type Config struct {
	// Engine configures the chain executor.
	Engine EngineConfig `yaml:"engine"`
	// Log configures logging output.
	Log LogConfig `yaml:"log"`
	// Metrics configures the Prometheus collector.
	Metrics MetricsConfig `yaml:"metrics"`
}

// EngineConfig mirrors the executor's recognized options.
type EngineConfig struct {
	// MaxDepth is the recursion ceiling for nested chain execution.
	MaxDepth int `yaml:"max_depth"`
	// Timeout is the global wall-clock budget for one execute call.
	Timeout time.Duration `yaml:"timeout"`
	// NodeTimeout is the per-node budget inside a parallel batch.
	NodeTimeout time.Duration `yaml:"node_timeout"`
	// MaxConcurrent bounds parallel fan-out.
	MaxConcurrent int `yaml:"max_concurrent"`
	// ContinueOnError selects the sequential failure policy.
	ContinueOnError bool `yaml:"continue_on_error"`
	// StepDelay is the pause inserted between sequential steps.
	StepDelay time.Duration `yaml:"step_delay"`
	// CommandRate paces command handler calls per second. Zero disables
	// pacing.
	CommandRate float64 `yaml:"command_rate"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Development switches to the human-readable console encoder.
	Development bool `yaml:"development"`
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxDepth:      10,
			Timeout:       10 * time.Minute,
			NodeTimeout:   5 * time.Minute,
			MaxConcurrent: 4,
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "chainflow",
		},
	}
}

// Validate checks configured ranges.
func (c *Config) Validate() error {
	if c.Engine.MaxDepth <= 0 {
		return fmt.Errorf("engine.max_depth must be positive, got %d", c.Engine.MaxDepth)
	}
	if c.Engine.Timeout <= 0 {
		return fmt.Errorf("engine.timeout must be positive, got %s", c.Engine.Timeout)
	}
	if c.Engine.NodeTimeout <= 0 {
		return fmt.Errorf("engine.node_timeout must be positive, got %s", c.Engine.NodeTimeout)
	}
	if c.Engine.MaxConcurrent <= 0 {
		return fmt.Errorf("engine.max_concurrent must be positive, got %d", c.Engine.MaxConcurrent)
	}
	if c.Engine.CommandRate < 0 {
		return fmt.Errorf("engine.command_rate must not be negative, got %f", c.Engine.CommandRate)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug/info/warn/error, got %q", c.Log.Level)
	}
	return nil
}
