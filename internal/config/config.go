package config

// Config represents the main livelink configuration
type Config struct {
	// Server
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Session store
	Session SessionConfig `json:"session" mapstructure:"session"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ServerConfig holds HTTP gateway configuration
type ServerConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`
}

// SessionConfig holds session store configuration
type SessionConfig struct {
	TTLSeconds int    `json:"ttl_seconds" mapstructure:"ttl_seconds"`
	MaxUpdates int    `json:"max_updates" mapstructure:"max_updates"`
	StateFile  string `json:"state_file" mapstructure:"state_file"`

	// PersistPolicy is "degrade" (keep serving from memory on write
	// failure) or "strict" (surface the failure to the caller).
	PersistPolicy string `json:"persist_policy" mapstructure:"persist_policy"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Console   bool   `json:"console" mapstructure:"console"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Session: SessionConfig{
			TTLSeconds:    3600,
			MaxUpdates:    200,
			StateFile:     "", // resolved to $HOME/.livelink/session_state.json by the loader
			PersistPolicy: "degrade",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
	}
}
