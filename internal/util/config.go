package util

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type Configuration struct {
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
	DebugAST bool   `toml:"debug_ast"`
}

func DefaultConfiguration() Configuration {
	return Configuration{LogLevel: "info"}
}

// LoadConfiguration reads a TOML config file on top of the defaults.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}
