// Package config loads client configuration from a YAML file with
// environment overrides and sane defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes everything the client needs at startup.
type Config struct {
	Server struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
		// RateLimit caps outbound requests per second as a courtesy to the
		// backend; bursts are allowed up to Burst.
		RateLimit float64 `yaml:"rate_limit"`
		Burst     int     `yaml:"burst"`
	} `yaml:"server"`

	Client struct {
		StateDir  string `yaml:"state_dir"`
		ExportDir string `yaml:"export_dir"`
		LogFile   string `yaml:"log_file"`
	} `yaml:"client"`

	UI struct {
		// NoAltScreen renders inline instead of on the alternate screen
		// buffer; the zero value keeps the alternate screen on.
		NoAltScreen bool `yaml:"no_alt_screen"`
	} `yaml:"ui"`
}

// Load reads the config at path, falling back to default locations when path
// is empty and to built-in defaults when no file exists.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, loc := range defaultLocations() {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	mergeWithEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func defaultLocations() []string {
	locations := []string{"folio.yaml", "folio.yml"}
	if base, err := os.UserConfigDir(); err == nil {
		locations = append(locations, filepath.Join(base, "folio", "config.yaml"))
	}
	return locations
}

func applyDefaults(cfg *Config) {
	if cfg.Server.URL == "" {
		cfg.Server.URL = "http://localhost:8000"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 5.0
	}
	if cfg.Server.Burst == 0 {
		cfg.Server.Burst = 10
	}
	if cfg.Client.ExportDir == "" {
		cfg.Client.ExportDir = "."
	}
}

func mergeWithEnv(cfg *Config) {
	if url := os.Getenv("FOLIO_SERVER_URL"); url != "" {
		cfg.Server.URL = url
	}
	if dir := os.Getenv("FOLIO_STATE_DIR"); dir != "" {
		cfg.Client.StateDir = dir
	}
	if file := os.Getenv("FOLIO_LOG_FILE"); file != "" {
		cfg.Client.LogFile = file
	}
}
