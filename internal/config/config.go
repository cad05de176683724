// Package config loads the CLI's runtime settings (data directory, buffer
// pool size) from an optional YAML file, falling back to defaults when
// none is present.
package config

import (
	"github.com/spf13/viper"
)

// DefaultNumBuffer matches the NUM_BUFFER constant this engine was
// originally specified against.
const DefaultNumBuffer = 4

// Config holds everything cmd/minirel needs to open a Database.
type Config struct {
	DataDir   string `mapstructure:"data_dir"`
	NumBuffer int    `mapstructure:"num_buffer"`
}

func defaults() Config {
	return Config{DataDir: ".", NumBuffer: DefaultNumBuffer}
}

// Load reads path (if it exists) as YAML and overlays it onto the
// defaults. A missing or unreadable config file is not an error: the
// engine must be able to start with zero configuration.
func Load(path string) (Config, error) {
	cfg := defaults()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("num_buffer", cfg.NumBuffer)

	// A missing or unparsable config file falls back to defaults rather
	// than failing startup; a teaching engine should run unconfigured.
	if err := v.ReadInConfig(); err != nil {
		return cfg, nil
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return defaults(), err
	}
	if cfg.NumBuffer <= 0 {
		cfg.NumBuffer = DefaultNumBuffer
	}
	return cfg, nil
}
