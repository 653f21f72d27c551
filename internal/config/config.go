// Package config loads server settings from defaults, an optional YAML
// file, and SHOPFASTER_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "SHOPFASTER"

const (
	keyPort           = "port"
	keyDBPath         = "db_path"
	keyLogLevel       = "log_level"
	keyLogFormat      = "log_format"
	keyAllowedOrigins = "allowed_origins"
	keySecureCookies  = "secure_cookies"
)

type Config struct {
	Port           string
	DBPath         string
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string
	SecureCookies  bool
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	return nil
}

// Load reads configuration. An empty path skips the file. A path that
// does not exist is an error; a file is only read when asked for.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault(keyPort, "8080")
	v.SetDefault(keyDBPath, "shopfaster.db")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "text")
	v.SetDefault(keyAllowedOrigins, []string{"http://localhost:3000"})
	v.SetDefault(keySecureCookies, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Port:           v.GetString(keyPort),
		DBPath:         v.GetString(keyDBPath),
		LogLevel:       v.GetString(keyLogLevel),
		LogFormat:      v.GetString(keyLogFormat),
		AllowedOrigins: splitOrigins(v.GetStringSlice(keyAllowedOrigins)),
		SecureCookies:  v.GetBool(keySecureCookies),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// splitOrigins accepts both YAML lists and a comma-separated env value.
func splitOrigins(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, o := range strings.Split(entry, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}
