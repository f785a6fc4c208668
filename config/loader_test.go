package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Defaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Engine.MaxDepth)
	assert.Equal(t, 10*time.Minute, cfg.Engine.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Engine.NodeTimeout)
	assert.Equal(t, 4, cfg.Engine.MaxConcurrent)
	assert.False(t, cfg.Engine.ContinueOnError)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "chainflow", cfg.Metrics.Namespace)
}

func TestLoader_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chainflow.yaml")
	content := `
engine:
  max_depth: 5
  timeout: 2m
  node_timeout: 30s
  max_concurrent: 8
  continue_on_error: true
  step_delay: 100ms
log:
  level: debug
  development: true
metrics:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Engine.MaxDepth)
	assert.Equal(t, 2*time.Minute, cfg.Engine.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Engine.NodeTimeout)
	assert.Equal(t, 8, cfg.Engine.MaxConcurrent)
	assert.True(t, cfg.Engine.ContinueOnError)
	assert.Equal(t, 100*time.Millisecond, cfg.Engine.StepDelay)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader().WithConfigPath("/nonexistent/chainflow.yaml").Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Engine.MaxDepth)
}

func TestLoader_EnvOverrides(t *testing.T) {
	t.Setenv("CHAINFLOW_ENGINE_MAX_DEPTH", "20")
	t.Setenv("CHAINFLOW_ENGINE_TIMEOUT", "1m")
	t.Setenv("CHAINFLOW_ENGINE_CONTINUE_ON_ERROR", "true")
	t.Setenv("CHAINFLOW_LOG_LEVEL", "warn")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Engine.MaxDepth)
	assert.Equal(t, time.Minute, cfg.Engine.Timeout)
	assert.True(t, cfg.Engine.ContinueOnError)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chainflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  max_concurrent: 8\n"), 0o600))

	t.Setenv("CHAINFLOW_ENGINE_MAX_CONCURRENT", "16")

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Engine.MaxConcurrent)
}

func TestLoader_CustomPrefix(t *testing.T) {
	t.Setenv("CF_ENGINE_MAX_DEPTH", "3")

	cfg, err := NewLoader().WithEnvPrefix("CF").Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Engine.MaxDepth)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero max depth",
			mutate:  func(c *Config) { c.Engine.MaxDepth = 0 },
			wantErr: "max_depth",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Engine.Timeout = -time.Second },
			wantErr: "timeout",
		},
		{
			name:    "zero max concurrent",
			mutate:  func(c *Config) { c.Engine.MaxConcurrent = 0 },
			wantErr: "max_concurrent",
		},
		{
			name:    "negative command rate",
			mutate:  func(c *Config) { c.Engine.CommandRate = -1 },
			wantErr: "command_rate",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
