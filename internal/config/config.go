// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates quotezd's TOML configuration
// file. The file is read exactly once at startup; there is no
// hot-reload of configuration (only the quote corpus hot-reloads).
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	qerrors "github.com/fulgidus/quotez/internal/errors"
)

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 17
	defaultMode            = "random"
	defaultPollingSeconds  = 60
	defaultFsnotifyEnabled = true
)

var validModes = map[string]bool{
	"random":           true,
	"sequential":       true,
	"random-no-repeat": true,
	"shuffle-cycle":    true,
}

// Config is the root of the TOML configuration file.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Quotes  QuotesConfig  `toml:"quotes"`
	Polling PollingConfig `toml:"polling"`
	Metrics MetricsConfig `toml:"metrics"`
}

// ServerConfig holds the bind address and ports for both transports.
type ServerConfig struct {
	Host    string `toml:"host"`
	TCPPort int    `toml:"tcp_port"`
	UDPPort int    `toml:"udp_port"`
}

// QuotesConfig holds the corpus source directories and selection policy.
type QuotesConfig struct {
	Directories []string `toml:"directories"`
	Mode        string   `toml:"mode"`
}

// PollingConfig holds the watcher's polling cadence and fast-path toggle.
type PollingConfig struct {
	IntervalSeconds int   `toml:"interval_seconds"`
	Fsnotify        *bool `toml:"fsnotify"`
}

// MetricsConfig holds the optional Prometheus metrics listener address.
type MetricsConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// FsnotifyEnabled reports whether the fsnotify fast-path hint is
// enabled, applying its default of true when unset.
func (p PollingConfig) FsnotifyEnabled() bool {
	if p.Fsnotify == nil {
		return defaultFsnotifyEnabled
	}
	return *p.Fsnotify
}

// Load reads, parses, defaults, and validates the configuration file
// at path. Any violation is returned as a *qerrors.ConfigError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, qerrors.NewConfigError(
			"Cannot read configuration file",
			fmt.Sprintf("Failed to read %s", path),
			"Check that the path exists and is readable, or pass -c/--config explicitly",
			err,
		)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, qerrors.NewConfigError(
			"Invalid configuration format",
			fmt.Sprintf("TOML parsing failed for %s", path),
			"Fix the syntax error reported below",
			err,
		)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills in optional fields left unset by the file,
// logging each substitution at info level.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		slog.Info("config.default_applied", "field", "server.host", "value", defaultHost)
		c.Server.Host = defaultHost
	}
	if c.Server.TCPPort == 0 {
		slog.Info("config.default_applied", "field", "server.tcp_port", "value", defaultPort)
		c.Server.TCPPort = defaultPort
	}
	if c.Server.UDPPort == 0 {
		slog.Info("config.default_applied", "field", "server.udp_port", "value", defaultPort)
		c.Server.UDPPort = defaultPort
	}
	if c.Quotes.Mode == "" {
		slog.Info("config.default_applied", "field", "quotes.mode", "value", defaultMode)
		c.Quotes.Mode = defaultMode
	}
	if c.Polling.IntervalSeconds == 0 {
		slog.Info("config.default_applied", "field", "polling.interval_seconds", "value", defaultPollingSeconds)
		c.Polling.IntervalSeconds = defaultPollingSeconds
	}
}

// validate checks required fields, enum values, and numeric ranges,
// returning the first violation found as a *qerrors.ConfigError.
func (c *Config) validate() error {
	if len(c.Quotes.Directories) == 0 {
		return qerrors.NewConfigError(
			"Missing required configuration",
			"quotes.directories must list at least one directory",
			"Add a quotes.directories = [\"/path/to/quotes\"] entry",
			nil,
		)
	}
	if !validModes[c.Quotes.Mode] {
		return qerrors.NewConfigError(
			"Invalid configuration value",
			fmt.Sprintf("quotes.mode %q is not one of random, sequential, random-no-repeat, shuffle-cycle", c.Quotes.Mode),
			"Pick one of the four supported selection policies",
			nil,
		)
	}
	if c.Server.TCPPort < 1 || c.Server.TCPPort > 65535 {
		return portError("server.tcp_port", c.Server.TCPPort)
	}
	if c.Server.UDPPort < 1 || c.Server.UDPPort > 65535 {
		return portError("server.udp_port", c.Server.UDPPort)
	}
	if c.Polling.IntervalSeconds <= 0 {
		return qerrors.NewConfigError(
			"Invalid configuration value",
			fmt.Sprintf("polling.interval_seconds must be >= 1, got %d", c.Polling.IntervalSeconds),
			"Set polling.interval_seconds to a positive number of seconds",
			nil,
		)
	}
	return nil
}

func portError(field string, value int) error {
	return qerrors.NewConfigError(
		"Invalid configuration value",
		fmt.Sprintf("%s must be in 1..65535, got %d", field, value),
		"Use a valid TCP/UDP port number",
		nil,
	)
}
