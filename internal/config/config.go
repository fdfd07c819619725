// Package config loads mermaidflow's optional TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/mermaidflow/config.toml, falling back
// to ~/.config/mermaidflow/config.toml:
//
//	theme = "dark"
//	orientation = "LR"
//	strict = false
//
//	[server]
//	addr = ":8080"
//	redis_url = "redis://localhost:6379/0"
//	buffer_ttl = "24h"
//
// Every key is optional. Command-line flags override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/mermaid"
	"github.com/matzehuels/mermaidflow/pkg/session"
)

const (
	// appDir is the directory name under the config home.
	appDir = "mermaidflow"

	// fileName is the config file name inside appDir.
	fileName = "config.toml"

	// DefaultAddr is the server listen address when none is configured.
	DefaultAddr = "127.0.0.1:8080"
)

// Config holds file-level settings.
type Config struct {
	Theme       string `toml:"theme"`
	Orientation string `toml:"orientation"`
	Strict      bool   `toml:"strict"`

	Server Server `toml:"server"`

	// Path is the file the config was read from, empty when none existed.
	Path string `toml:"-"`
}

// Server holds settings for `mermaidflow serve`.
type Server struct {
	Addr      string        `toml:"addr"`
	RedisURL  string        `toml:"redis_url"`
	BufferTTL time.Duration `toml:"buffer_ttl"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Theme:       string(mermaid.ThemeDefault),
		Orientation: string(mermaid.TopDown),
		Server: Server{
			Addr:      DefaultAddr,
			BufferTTL: session.DefaultTTL,
		},
	}
}

// Dir returns the mermaidflow config directory.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir), nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the config from path, or from [DefaultPath] when path is
// empty. A missing default file yields [Default]; a missing explicit file
// is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks theme, orientation and server settings.
func (c *Config) Validate() error {
	theme, err := mermaid.ParseTheme(c.Theme)
	if err != nil {
		return err
	}
	orientation, err := mermaid.ParseOrientation(c.Orientation)
	if err != nil {
		return err
	}
	c.Theme, c.Orientation = string(theme), string(orientation)

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.BufferTTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.buffer_ttl must not be negative")
	}
	if c.Server.BufferTTL == 0 {
		c.Server.BufferTTL = session.DefaultTTL
	}
	return nil
}

// Write encodes c as TOML to path, creating parent directories.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}
