package editor

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the editor service configuration.
type Config struct {
	Addr          string        `yaml:"addr"`
	DBPath        string        `yaml:"db_path"`
	RelayURL      string        `yaml:"relay_url"`
	SaveTimeout   time.Duration `yaml:"save_timeout"`
	EventLog      bool          `yaml:"event_log"`
	EventLogDays  int           `yaml:"event_log_days"`
	MCPServerName string        `yaml:"mcp_server_name"`
}

func (c *Config) defaults() {
	if c.Addr == "" {
		c.Addr = ":8460"
	}
	if c.DBPath == "" {
		c.DBPath = "a11yreport.db"
	}
	if c.SaveTimeout <= 0 {
		c.SaveTimeout = 5 * time.Second
	}
	if c.EventLogDays <= 0 {
		c.EventLogDays = 90
	}
	if c.MCPServerName == "" {
		c.MCPServerName = "a11yreport"
	}
}

// LoadConfigFile reads a YAML config file and applies defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.defaults()
	return cfg, nil
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{EventLog: true}
	cfg.defaults()
	return cfg
}
