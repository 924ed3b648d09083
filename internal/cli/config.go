package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the environment configuration of the CLI. Flags given on the
// command line take precedence over these values.
type Config struct {
	DB        string `env:"CONTACTS_DB"`
	Driver    string `env:"CONTACTS_DRIVER"`
	LogLevel  string `env:"CONTACTS_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"CONTACTS_LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"CONTACTS_LOG_FILE"`
}

// LoadConfig parses Config from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
