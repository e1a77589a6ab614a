// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

// Package config loads server configuration from YAML files and
// command-line flags, validated against a generated JSON schema.
package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Server holds the listener addresses.
type Server struct {
	// TelnetAddr is the address the telnet server binds.
	TelnetAddr string `koanf:"telnetAddr" json:"telnetAddr"`
	// MetricsAddr is the address the metrics/health server binds.
	// Empty disables the server.
	MetricsAddr string `koanf:"metricsAddr" json:"metricsAddr,omitempty"`
}

// Database holds the persistence settings. An empty URL runs the
// server ephemeral, on the in-memory store.
type Database struct {
	URL         string `koanf:"url" json:"url,omitempty"`
	AutoMigrate bool   `koanf:"autoMigrate" json:"autoMigrate,omitempty"`
}

// Log holds the logging settings.
type Log struct {
	Level  string `koanf:"level" json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	Format string `koanf:"format" json:"format,omitempty" jsonschema:"enum=json,enum=text"`
}

// Limits bounds per-session command throughput and the engine queue.
type Limits struct {
	// Burst is the token bucket capacity per session.
	Burst int `koanf:"burst" json:"burst,omitempty" jsonschema:"minimum=1"`
	// Sustained is the token refill rate per second.
	Sustained float64 `koanf:"sustained" json:"sustained,omitempty" jsonschema:"minimum=0"`
	// QueueSize is the engine event channel capacity.
	QueueSize int `koanf:"queueSize" json:"queueSize,omitempty" jsonschema:"minimum=1"`
}

// Config is the full server configuration.
type Config struct {
	Server   Server   `koanf:"server" json:"server"`
	Database Database `koanf:"database" json:"database,omitempty"`
	Log      Log      `koanf:"log" json:"log,omitempty"`
	Limits   Limits   `koanf:"limits" json:"limits,omitempty"`
	// SeedPath points at a YAML world seed loaded on first boot.
	SeedPath string `koanf:"seedPath" json:"seedPath,omitempty"`
}

// Default returns the configuration used when neither file nor flags
// override a key.
func Default() Config {
	return Config{
		Server: Server{
			TelnetAddr:  ":4000",
			MetricsAddr: ":9090",
		},
		Database: Database{AutoMigrate: true},
		Log:      Log{Level: "info", Format: "json"},
		Limits: Limits{
			Burst:     10,
			Sustained: 5,
			QueueSize: 256,
		},
	}
}

// Load merges defaults, the optional YAML file at path, and flags,
// then validates the result against the generated schema. Flags win
// over the file; the file wins over defaults.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_FILE_FAILED").With("path", path).Wrap(err)
		}
	}
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
