package config

import "fmt"

// Validate checks configuration values for internal consistency
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Session.TTLSeconds <= 0 {
		return fmt.Errorf("session ttl_seconds must be positive, got %d", c.Session.TTLSeconds)
	}

	if c.Session.MaxUpdates <= 0 {
		return fmt.Errorf("session max_updates must be positive, got %d", c.Session.MaxUpdates)
	}

	switch c.Session.PersistPolicy {
	case "degrade", "strict":
	default:
		return fmt.Errorf("unknown persist_policy %q (want degrade or strict)", c.Session.PersistPolicy)
	}

	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}

	return nil
}
