package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Session.StateFile = "/tmp/livelink/state.json"
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		shouldErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"negative ttl", func(c *Config) { c.Session.TTLSeconds = -1 }, true},
		{"zero max updates", func(c *Config) { c.Session.MaxUpdates = 0 }, true},
		{"unknown persist policy", func(c *Config) { c.Session.PersistPolicy = "maybe" }, true},
		{"strict persist policy", func(c *Config) { c.Session.PersistPolicy = "strict" }, false},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"empty log level", func(c *Config) { c.Logging.Level = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
