// Package config loads slicerform settings from slicerform.yaml, SLICERFORM_*
// environment variables and command line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. SLICERFORM_GIRDER_TOKEN.
const EnvPrefix = "SLICERFORM"

// Keys shared between flags and the config file.
const (
	KeyGirderURL      = "girder.url"
	KeyGirderToken    = "girder.token"
	KeyGirderRestPath = "girder.rest_path"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyServerAddr     = "server.addr"
	KeyHTTPTimeout    = "http.timeout"
)

// GirderConfig describes the Girder server jobs are sent to.
type GirderConfig struct {
	URL      string `mapstructure:"url"`
	Token    string `mapstructure:"token"`
	RestPath string `mapstructure:"rest_path"`
}

// LogConfig selects the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// HTTPConfig tunes outbound requests.
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config is the resolved configuration.
type Config struct {
	Girder GirderConfig `mapstructure:"girder"`
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	HTTP   HTTPConfig   `mapstructure:"http"`
}

// New returns a viper instance with defaults, search paths and environment
// binding applied. Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyGirderURL, "")
	v.SetDefault(KeyGirderToken, "")
	v.SetDefault(KeyGirderRestPath, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyHTTPTimeout, 30*time.Second)

	v.SetConfigName("slicerform")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "slicerform"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (an explicit path when file is set, otherwise
// the search paths) and decodes the result. A missing config file is not an
// error unless it was named explicitly.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Girder.URL = strings.TrimRight(cfg.Girder.URL, "/")
	return cfg, nil
}
