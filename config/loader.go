package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader assembles a Config from defaults, an optional YAML file, and
// environment variable overrides.
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a Loader with no file and the "CHAINFLOW" env prefix.
func NewLoader() *Loader {
	return &Loader{envPrefix: "CHAINFLOW"}
}

// WithConfigPath sets the YAML file to load. A missing file is not an error;
// defaults and env overrides still apply.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix overrides the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load builds and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", l.configPath, err)
		}
	}

	l.applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides fields from PREFIX_SECTION_KEY environment variables.
func (l *Loader) applyEnv(cfg *Config) {
	setInt(l.key("ENGINE_MAX_DEPTH"), &cfg.Engine.MaxDepth)
	setDuration(l.key("ENGINE_TIMEOUT"), &cfg.Engine.Timeout)
	setDuration(l.key("ENGINE_NODE_TIMEOUT"), &cfg.Engine.NodeTimeout)
	setInt(l.key("ENGINE_MAX_CONCURRENT"), &cfg.Engine.MaxConcurrent)
	setBool(l.key("ENGINE_CONTINUE_ON_ERROR"), &cfg.Engine.ContinueOnError)
	setDuration(l.key("ENGINE_STEP_DELAY"), &cfg.Engine.StepDelay)
	setFloat(l.key("ENGINE_COMMAND_RATE"), &cfg.Engine.CommandRate)
	setString(l.key("LOG_LEVEL"), &cfg.Log.Level)
	setBool(l.key("LOG_DEVELOPMENT"), &cfg.Log.Development)
	setBool(l.key("METRICS_ENABLED"), &cfg.Metrics.Enabled)
	setString(l.key("METRICS_NAMESPACE"), &cfg.Metrics.Namespace)
}

func (l *Loader) key(suffix string) string {
	return l.envPrefix + "_" + suffix
}

func setString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(key string, dst *float64) {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(key string, dst *time.Duration) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
