package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the runtime configuration of the dashboard process.
type Config struct {
	Server  ServerConfig
	SQLite  SQLiteConfig
	API     APIConfig
	Session SessionConfig
	Display DisplayConfig
}

type ServerConfig struct {
	Addr string
}

type SQLiteConfig struct {
	Path string
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
}

type DisplayConfig struct {
	Timezone string
	Location *time.Location `mapstructure:"-"`
}

// Load reads leafdesk.toml (optional) and the environment.
//
// Environment variables use the LEAFDESK_ prefix with "_" as the key separator,
// e.g. LEAFDESK_API_BASE_URL. APP_ADDR and SQLITE_PATH are also honoured.
func Load(configFile string) (*Config, error) {
	return LoadWith(configFile, nil)
}

// LoadWith is Load with explicit values, such as command-line flags, applied
// over the file and the environment.
func LoadWith(configFile string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("leafdesk")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		slog.Info("config file not found, using defaults and environment")
	}

	v.SetEnvPrefix("LEAFDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.addr", "LEAFDESK_SERVER_ADDR", "APP_ADDR")
	_ = v.BindEnv("sqlite.path", "LEAFDESK_SQLITE_PATH", "SQLITE_PATH")

	for key, value := range overrides {
		v.Set(key, value)
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("sqlite.path", "leafdesk.db")
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("session.secure_cookie", false)
	v.SetDefault("display.timezone", "Local")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Addr: v.GetString("server.addr")},
		SQLite: SQLiteConfig{Path: v.GetString("sqlite.path")},
		API: APIConfig{
			BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("api.base_url")), "/"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Session: SessionConfig{
			TTL:          v.GetDuration("session.ttl"),
			SecureCookie: v.GetBool("session.secure_cookie"),
		},
		Display: DisplayConfig{Timezone: v.GetString("display.timezone")},
	}

	loc, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("display.timezone %q: %w", cfg.Display.Timezone, err)
	}
	cfg.Display.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.SQLite.Path == "" {
		return fmt.Errorf("sqlite.path is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	return nil
}
