package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the spreadscan dashboard.
type Config struct {
	API     API     `yaml:"api"`
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
	Client  Client  `yaml:"client"`
}

// API holds the scan engine's endpoint configuration. The engine mounts all
// routes under /api/v1 except /health, which lives at the server root.
type API struct {
	BaseURL            string `yaml:"base_url"`
	RequestTimeoutSecs int    `yaml:"request_timeout_secs"`
	ScanTimeoutSecs    int    `yaml:"scan_timeout_secs"`
}

// Storage holds paths for the session scan log and result exports.
// ScanLogPath defaults to ":memory:" so the log dies with the session.
type Storage struct {
	DataDir     string `yaml:"data_dir"`
	ScanLogPath string `yaml:"scan_log_path"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Client holds client-side behaviour knobs.
type Client struct {
	RateLimitPerMin  int `yaml:"rate_limit_per_min"`
	QuoteRefreshSecs int `yaml:"quote_refresh_secs"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{
		API: API{
			BaseURL:            "http://localhost:8000",
			RequestTimeoutSecs: 30,
			ScanTimeoutSecs:    120,
		},
		Storage: Storage{
			DataDir:     ".",
			ScanLogPath: ":memory:",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Client: Client{
			RateLimitPerMin:  120,
			QuoteRefreshSecs: 5,
		},
	}
	applyEnvOverrides(cfg)
	return cfg
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies environment variable overrides. Fields the
// file omits keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SPREADSCAN_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}

	if v := os.Getenv("SPREADSCAN_SCAN_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.ScanTimeoutSecs = n
		}
	}

	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}

	if v := os.Getenv("SCAN_LOG_PATH"); v != "" {
		cfg.Storage.ScanLogPath = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
