package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API APIConfig
	Log LogConfig
	UI  UIConfig
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

// LogConfig holds logger settings.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme string `mapstructure:"theme"` // classic | neon | mono
}

// Load reads configuration from file and env. Env var overrides use prefix TUIDO_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("api.base_url", "http://localhost:3001")
	v.SetDefault("api.timeout", 10)
	v.SetDefault("log.file", filepath.Join(os.Getenv("HOME"), ".local", "state", "tuido", "tuido.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.theme", "classic")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TUIDO_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "tuido"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TUIDO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = 10
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	return c, nil
}
