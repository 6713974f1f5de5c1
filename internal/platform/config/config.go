package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures everything the pipeline needs at startup. Values come from
// an optional YAML file with env overrides so main stays lean.
type Config struct {
	Services ServicesConfig `yaml:"services"`
	Auth     AuthConfig     `yaml:"auth"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServicesConfig holds the remote endpoints. Both base URLs end with a
// trailing slash; endpoint paths are appended verbatim.
type ServicesConfig struct {
	KeyServiceBaseURL  string `yaml:"key_service_base_url"`
	ScanServiceBaseURL string `yaml:"scan_service_base_url"`
}

type AuthConfig struct {
	UserKey       string `yaml:"user_key"`
	TermsAccepted bool   `yaml:"accept_terms_and_conditions"`
}

type MetricsConfig struct {
	// Addr exposes Prometheus metrics when non-empty, e.g. ":9090".
	Addr string `yaml:"addr"`
}

// Default returns the hosted-service endpoints with metrics disabled.
func Default() Config {
	return Config{
		Services: ServicesConfig{
			KeyServiceBaseURL:  "https://api.scandoc.ai/ks/",
			ScanServiceBaseURL: "https://api.scandoc.ai/ss/",
		},
	}
}

// Load reads the YAML file at path when it exists, then applies env
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SCANDOC_KEY_SERVICE_URL"); v != "" {
		cfg.Services.KeyServiceBaseURL = v
	}
	if v := os.Getenv("SCANDOC_SCAN_SERVICE_URL"); v != "" {
		cfg.Services.ScanServiceBaseURL = v
	}
	if v := os.Getenv("SCANDOC_USER_KEY"); v != "" {
		cfg.Auth.UserKey = v
	}
	if v := os.Getenv("SCANDOC_ACCEPT_TERMS"); v != "" {
		cfg.Auth.TermsAccepted = v == "true"
	}
	if v := os.Getenv("SCANDOC_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
}

// Validate rejects configurations the pipeline cannot start with.
func (c Config) Validate() error {
	if c.Auth.UserKey == "" {
		return errors.New("user_key is required")
	}
	if c.Services.KeyServiceBaseURL == "" || c.Services.ScanServiceBaseURL == "" {
		return errors.New("service base urls are required")
	}
	return nil
}
