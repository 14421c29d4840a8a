// Package config loads the gridboard TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/gridboard/config.toml (or
// ~/.config/gridboard/config.toml). A missing file means defaults; keys the
// loader does not recognise are reported so typos don't go unnoticed.
//
//	[server]
//	addr = ":8080"
//
//	[dashboard]
//	default_chart = "bar"
//
//	[storage]
//	backend = "sqlite"
//
//	[storage.sqlite]
//	path = "/var/lib/gridboard/state.db"
//
//	[[tabs]]
//	id = "1"
//	name = "Dashboard"
//	value = "dashboard"
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/storage"
	"github.com/matzehuels/gridboard/pkg/store"
)

// Config is the full configuration file.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Storage   StorageConfig   `toml:"storage"`
	Tabs      []store.TabInfo `toml:"tabs"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DashboardConfig configures dashboard defaults.
type DashboardConfig struct {
	DefaultChart string `toml:"default_chart"`
}

// StorageConfig configures persistence.
type StorageConfig struct {
	Backend string       `toml:"backend"`
	Dir     string       `toml:"dir"`
	Key     string       `toml:"key"`
	Redis   RedisConfig  `toml:"redis"`
	Mongo   MongoConfig  `toml:"mongo"`
	SQLite  SQLiteConfig `toml:"sqlite"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// SQLiteConfig configures the sqlite backend.
type SQLiteConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Addr: "127.0.0.1:8080"},
		Dashboard: DashboardConfig{DefaultChart: "bar"},
		Storage: StorageConfig{
			Backend: storage.BackendFile,
			Key:     store.RecordKey,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "gridboard:"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: "gridboard", Collection: "state"},
		},
		Tabs: slices.Clone(store.DefaultTabs),
	}
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/gridboard/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "gridboard", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gridboard", "config.toml"), nil
}

// Load reads the file at path on top of [Default]. A missing file is not an
// error. Unrecognised keys are returned alongside the config.
func Load(path string) (*Config, []string, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil, nil
	}

	// Tabs replace the defaults rather than extend them.
	cfg.Tabs = nil
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if len(cfg.Tabs) == 0 {
		cfg.Tabs = slices.Clone(store.DefaultTabs)
	}

	var unknown []string
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, unknown, err
	}
	return cfg, unknown, nil
}

// Validate checks values that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	if c.Storage.Backend != "" && !slices.Contains(storage.Backends, c.Storage.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "storage.backend %q is not one of %v", c.Storage.Backend, storage.Backends)
	}
	if err := errors.ValidateChartType(c.Dashboard.DefaultChart); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "dashboard.default_chart")
	}
	seen := make(map[string]bool, len(c.Tabs))
	for i, t := range c.Tabs {
		if err := errors.ValidateTabID(t.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "tabs[%d]", i)
		}
		if seen[t.ID] {
			return errors.New(errors.ErrCodeInvalidConfig, "tabs[%d]: duplicate id %q", i, t.ID)
		}
		seen[t.ID] = true
		if t.Name == "" {
			c.Tabs[i].Name = t.ID
		}
		if t.Value == "" {
			c.Tabs[i].Value = t.ID
		}
	}
	return nil
}

// StorageOptions converts the storage section for [storage.Open].
func (c *Config) StorageOptions() storage.Config {
	return storage.Config{
		Backend: c.Storage.Backend,
		Dir:     c.Storage.Dir,
		Redis: storage.RedisConfig{
			Addr:     c.Storage.Redis.Addr,
			Password: c.Storage.Redis.Password,
			DB:       c.Storage.Redis.DB,
			Prefix:   c.Storage.Redis.Prefix,
		},
		Mongo: storage.MongoConfig{
			URI:        c.Storage.Mongo.URI,
			Database:   c.Storage.Mongo.Database,
			Collection: c.Storage.Mongo.Collection,
		},
		SQLite: storage.SQLiteConfig{Path: c.Storage.SQLite.Path},
	}
}

// Write encodes c as TOML. Secrets are written as they are.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
