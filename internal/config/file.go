package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	Port       string            `yaml:"port"`
	AdminToken string            `yaml:"admin_token"`
	Stats      fileStats         `yaml:"stats"`
	Variables  map[string]string `yaml:"variables"`
}

type fileStats struct {
	GametrackerURL string        `yaml:"gametracker_url"`
	BfbcsURL       string        `yaml:"bfbcs_url"`
	Timeout        time.Duration `yaml:"timeout"`
	RateLimit      *float64      `yaml:"rate_limit"`
	Workers        int           `yaml:"workers"`
}

// LoadFile overlays values from a YAML file on top of cfg.
// Empty fields in the file leave the existing value untouched.
func LoadFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if fc.AdminToken != "" {
		cfg.AdminToken = fc.AdminToken
	}
	if fc.Stats.GametrackerURL != "" {
		cfg.Stats.GametrackerURL = fc.Stats.GametrackerURL
	}
	if fc.Stats.BfbcsURL != "" {
		cfg.Stats.BfbcsURL = fc.Stats.BfbcsURL
	}
	if fc.Stats.Timeout > 0 {
		cfg.Stats.Timeout = fc.Stats.Timeout
	}
	if fc.Stats.RateLimit != nil && *fc.Stats.RateLimit >= 0 {
		cfg.Stats.RateLimit = *fc.Stats.RateLimit
	}
	if fc.Stats.Workers > 0 {
		cfg.Stats.Workers = fc.Stats.Workers
	}
	if len(fc.Variables) > 0 {
		vars := make(map[string]string, len(cfg.Variables)+len(fc.Variables))
		for k, v := range cfg.Variables {
			vars[k] = v
		}
		for k, v := range fc.Variables {
			vars[k] = v
		}
		cfg.Variables = vars
	}
	return cfg, nil
}
