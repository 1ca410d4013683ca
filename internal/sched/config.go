package sched

import (
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yaml
type Config struct {
	TickMS       int     `yaml:"tick_ms"`       // 16 (by default), vsync simulation interval
	TimeDilation float64 `yaml:"time_dilation"` // 1.0 (by default)
	EventBuffer  int     `yaml:"event_buffer"`  // 256 (by default)
	LogLevel     string  `yaml:"log_level"`     // "info" (by default)
	LogFormat    string  `yaml:"log_format"`    // "text" (by default)
	CSVPath      string  `yaml:"csv_path"`      // empty = no CSV telemetry log
}

// If the config file is not found, we use default values
func defaultConfig() Config {
	return Config{
		TickMS:       16,
		TimeDilation: 1.0,
		EventBuffer:  256,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	// sanity clamps
	if cfg.TickMS <= 0 {
		cfg.TickMS = 16
	}
	if cfg.TimeDilation <= 0 {
		cfg.TimeDilation = 1.0
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 256
	}

	return cfg
}
