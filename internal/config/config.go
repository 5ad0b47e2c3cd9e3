// Package config loads the timeindex configuration file.
//
// The file is TOML:
//
//	code_hash = "0x..."   # time index type script code hash
//
//	[store]
//	path = "ledger.db"    # ":memory:" for an ephemeral ledger
//
//	[log]
//	level = "info"        # debug, info, warn, error
//
//	[output]
//	format = "json"       # text or json
//
// Every key is optional; missing keys keep their defaults.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/roach88/timeindex/internal/cell"
	"github.com/roach88/timeindex/internal/host"
)

// Config is the resolved configuration.
type Config struct {
	CodeHash string       `toml:"code_hash"`
	Store    StoreConfig  `toml:"store"`
	Log      LogConfig    `toml:"log"`
	Output   OutputConfig `toml:"output"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type OutputConfig struct {
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		CodeHash: host.DefaultCodeHash.String(),
		Store:    StoreConfig{Path: ":memory:"},
		Log:      LogConfig{Level: "warn"},
		Output:   OutputConfig{Format: "text"},
	}
}

// Load reads the file at path over the defaults. An empty path returns
// Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field can be interpreted.
func (c Config) Validate() error {
	if _, err := c.ParsedCodeHash(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("output.format must be text or json, got %q", c.Output.Format)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	return nil
}

// ParsedCodeHash decodes CodeHash.
func (c Config) ParsedCodeHash() (cell.Hash, error) {
	h, err := cell.ParseHash(c.CodeHash)
	if err != nil {
		return cell.Hash{}, fmt.Errorf("code_hash: %w", err)
	}
	return h, nil
}

// LogLevel maps Log.Level to a slog level.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
