// Package config loads Engine and Session settings from YAML, environment
// variables, or programmatic defaults.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xheldon-t/prosemirror-history/pkg/history"
)

// Config controls the history engine's retention and grouping behavior, and
// the transport layer's listen address.
//
// Example:
//
//	cfg, err := config.Load("./history.yaml")
//	engine := history.New(cfg.Engine())
type Config struct {
	// Depth is the number of events retained per branch before trimming.
	Depth int `yaml:"depth"`
	// NewGroupDelayMS is the maximum gap, in milliseconds, between two
	// edits that still allows them to group into one undo event.
	NewGroupDelayMS int `yaml:"new_group_delay_ms"`
	// ListenAddr is the address the websocket transport listens on.
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the engine's conventional defaults.
func Default() *Config {
	d := history.DefaultConfig()
	return &Config{
		Depth:           d.Depth,
		NewGroupDelayMS: int(d.NewGroupDelay / time.Millisecond),
		ListenAddr:      ":4000",
	}
}

// Load reads a YAML config file, filling in defaults for unset fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault reads path, or returns Default if the file cannot be read.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	return cfg
}

// FromEnv overrides cfg's fields from HISTORY_* environment variables, if
// set. Useful for container deployments layered on top of a YAML baseline.
func FromEnv(cfg *Config) *Config {
	if v := os.Getenv("HISTORY_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Depth = n
		}
	}
	if v := os.Getenv("HISTORY_GROUP_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.NewGroupDelayMS = n
		}
	}
	if v := os.Getenv("HISTORY_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	return cfg
}

// Engine converts this Config into a history.Config.
func (c *Config) Engine() history.Config {
	return history.Config{
		Depth:         c.Depth,
		NewGroupDelay: time.Duration(c.NewGroupDelayMS) * time.Millisecond,
	}
}
