// Package config holds the service configuration: defaults, file and
// STOREFRONT_* environment overrides, and validation.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Session  SessionConfig  `mapstructure:"session"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr" validate:"required"`
	Env      string `mapstructure:"env" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	// SecureCookie marks the session cookie Secure. Off only for local http.
	SecureCookie      bool          `mapstructure:"secure_cookie"`
	CheckoutReturnURL string        `mapstructure:"checkout_return_url" validate:"omitempty,url"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type UpstreamConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// Timeout of zero leaves calls bounded only by the request context.
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type SessionConfig struct {
	// Secret signs the sf_session cookie.
	Secret string        `mapstructure:"secret" validate:"required,min=16"`
	TTL    time.Duration `mapstructure:"ttl" validate:"gt=0"`

	Store       string `mapstructure:"store" validate:"oneof=memory redis mysql postgres"`
	RedisAddr   string `mapstructure:"redis_addr" validate:"required_if=Store redis"`
	MySQLDSN    string `mapstructure:"mysql_dsn" validate:"required_if=Store mysql"`
	PostgresDSN string `mapstructure:"postgres_dsn" validate:"required_if=Store postgres"`

	// SealKey encrypts upstream credentials before they reach the store.
	SealKey string `mapstructure:"seal_key" validate:"required,min=16"`
	// IdleEvict drops storefronts untouched for this long from memory.
	// Zero disables eviction.
	IdleEvict time.Duration `mapstructure:"idle_evict" validate:"gte=0"`
}

func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	if c.Session.SealKey == c.Session.Secret {
		return errors.New("session.seal_key must differ from session.secret")
	}
	return nil
}

func formatValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "gt", "gte":
		return fmt.Sprintf("%s must be positive", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, e.Tag())
	}
}
