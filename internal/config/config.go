package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	EnvServer  = "SELRANGE_SERVER"
	EnvTimeout = "SELRANGE_TIMEOUT"

	DefaultTimeout = 10 * time.Second
)

var (
	ErrUnknownFormat = errors.New("config: unknown file format")
	ErrNoServer      = errors.New("config: no language server command configured")
)

// Config configures the selrange tool.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Timeout time.Duration
}

// ServerConfig names the language server to start.
type ServerConfig struct {
	Command string   `toml:"command" yaml:"command"`
	Args    []string `toml:"args" yaml:"args"`
	RootURI string   `toml:"root_uri" yaml:"root_uri"`
}

type LogConfig struct {
	Level   string `toml:"level" yaml:"level"`
	JSON    bool   `toml:"json" yaml:"json"`
	NoColor bool   `toml:"no_color" yaml:"no_color"`
}

type fileConfig struct {
	Server  ServerConfig `toml:"server" yaml:"server"`
	Log     LogConfig    `toml:"log" yaml:"log"`
	Timeout string       `toml:"timeout" yaml:"timeout"`
}

func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info"},
		Timeout: DefaultTimeout,
	}
}

// Load reads path, a .toml, .yaml or .yml file, over the defaults and applies
// environment overrides. An empty path only applies the overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw := fileConfig{Server: cfg.Server, Log: cfg.Log}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &raw); err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	if s := strings.TrimSpace(raw.Timeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	cfg.Server = raw.Server
	cfg.Server.Command = strings.TrimSpace(cfg.Server.Command)
	cfg.Log = raw.Log
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if fields := strings.Fields(os.Getenv(EnvServer)); len(fields) > 0 {
		cfg.Server.Command = fields[0]
		cfg.Server.Args = fields[1:]
	}
	if raw := strings.TrimSpace(os.Getenv(EnvTimeout)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	return nil
}

// Validate checks the settings needed to talk to a language server.
func (c Config) Validate() error {
	if c.Server.Command == "" {
		return ErrNoServer
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
