package cli

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/gridboard/internal/config"
)

func TestRecordLocation(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"file default", func(*config.Config) {}, filepath.Join("/tmp/xdg-data", appName, "layout-storage.json")},
		{"file dir", func(c *config.Config) { c.Storage.Dir = "/srv/grid" }, "/srv/grid/layout-storage.json"},
		{"sqlite default", func(c *config.Config) { c.Storage.Backend = "sqlite" }, filepath.Join("/tmp/xdg-data", appName, "gridboard.db")},
		{"sqlite path", func(c *config.Config) {
			c.Storage.Backend = "sqlite"
			c.Storage.SQLite.Path = "/var/lib/grid.db"
		}, "/var/lib/grid.db"},
		{"redis", func(c *config.Config) { c.Storage.Backend = "redis" }, "redis://localhost:6379/gridboard:layout-storage"},
		{"mongo", func(c *config.Config) { c.Storage.Backend = "mongo" }, "gridboard.state"},
		{"memory", func(c *config.Config) { c.Storage.Backend = "memory" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			if got := recordLocation(cfg); got != tt.want {
				t.Errorf("recordLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}
