package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

// Config is the server configuration, read from TEAMCUP_* environment variables
type Config struct {
	Addr     string   `env:"TEAMCUP_ADDR"      envDefault:":8080"`
	DBPath   string   `env:"TEAMCUP_DB"        envDefault:"teamcup.db"`
	Events   []string `env:"TEAMCUP_EVENTS"    envDefault:"Men's Singles,Women's Singles,Men's Doubles,Women's Doubles,Mixed Doubles" envSeparator:","`
	Title    string   `env:"TEAMCUP_TITLE"     envDefault:"Team Cup"`
	MCPPath  string   `env:"TEAMCUP_MCP_PATH"  envDefault:"/mcp"`
	LogLevel string   `env:"TEAMCUP_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and checks the result
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	for i, event := range cfg.Events {
		cfg.Events[i] = strings.TrimSpace(event)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server can't run with. Event names are expected trimmed, as Load leaves them
func (c Config) Validate() error {
	if len(c.Events) == 0 {
		return fmt.Errorf("TEAMCUP_EVENTS must name at least one event")
	}
	seen := map[string]bool{}
	for _, event := range c.Events {
		if event == "" {
			return fmt.Errorf("TEAMCUP_EVENTS has an empty event name")
		}
		if seen[event] {
			return fmt.Errorf("TEAMCUP_EVENTS lists %q twice", event)
		}
		seen[event] = true
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level is the parsed TEAMCUP_LOG_LEVEL
func (c Config) Level() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("TEAMCUP_LOG_LEVEL: %w", err)
	}
	return level, nil
}
