package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "STOREFRONT"

// keys lists every setting that can be overridden from the environment,
// e.g. STOREFRONT_SESSION_STORE for session.store.
var keys = []string{
	"server.http_addr",
	"server.env",
	"server.log_level",
	"server.secure_cookie",
	"server.checkout_return_url",
	"server.shutdown_timeout",
	"upstream.base_url",
	"upstream.timeout",
	"session.secret",
	"session.ttl",
	"session.store",
	"session.redis_addr",
	"session.mysql_dsn",
	"session.postgres_dsn",
	"session.seal_key",
	"session.idle_evict",
}

// NewViper returns a viper instance reading configFile (when set) and
// STOREFRONT_* environment variables.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("storefront")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/storefront")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.secure_cookie", true)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("upstream.base_url", "https://ecommerce.routemisr.com/api/v1")
	v.SetDefault("upstream.timeout", time.Duration(0))
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("session.store", "memory")
	v.SetDefault("session.idle_evict", 30*time.Minute)
}

// Load reads the config file if there is one, applies environment
// overrides and validates the result. A missing file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Server.LogLevel = strings.ToLower(cfg.Server.LogLevel)
	cfg.Session.Store = strings.ToLower(cfg.Session.Store)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
