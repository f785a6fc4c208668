// Package config loads chainflow configuration from YAML files with
// environment variable overrides.
//
// Precedence: defaults → YAML file → environment variables.
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("chainflow.yaml").
//	    WithEnvPrefix("CHAINFLOW").
//	    Load()
package config
