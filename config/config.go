// Package config loads the service configuration from YAML with
// environment overrides and startup validation.
//
// Loading order: hardcoded defaults, then the YAML file, then
// STAYAUTH_* environment variables. A missing or short signing secret
// is a startup error, never a per-request one.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stayops/stayauth/observe"
	"github.com/stayops/stayauth/secret"
)

// MinSecretLength is the minimum length of the resolved signing key.
// Shorter HS256 keys are brute-forceable.
const MinSecretLength = 32

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	Store   StoreConfig   `yaml:"store"`
	Observe ObserveConfig `yaml:"observe"`
	Routes  []RoutePolicy `yaml:"routes"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Host     string              `yaml:"host"`
	Port     int                 `yaml:"port"`
	Timeouts ServerTimeoutConfig `yaml:"timeouts"`
}

// ServerTimeoutConfig contains HTTP timeouts in seconds.
type ServerTimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// AuthConfig contains token and session settings.
type AuthConfig struct {
	// Secret is the HS256 signing key. Supports ${VAR} expansion and
	// secretref:<provider>:<ref> indirection; never a literal in
	// committed config.
	Secret string `yaml:"secret"`

	// TokenTTL is the session token lifetime in minutes.
	TokenTTL int `yaml:"token_ttl"`

	// PrincipalCacheTTL is the resolver cache staleness bound in
	// seconds. Zero uses the default, negative disables caching.
	PrincipalCacheTTL int `yaml:"principal_cache_ttl"`

	// StoreTimeout bounds user and revocation store lookups, in
	// seconds.
	StoreTimeout int `yaml:"store_timeout"`

	// ObscureCrossTenant renders cross-tenant denials as not-found.
	ObscureCrossTenant bool `yaml:"obscure_cross_tenant"`
}

// StoreConfig selects the backing store implementations.
type StoreConfig struct {
	Users       UserStoreConfig       `yaml:"users"`
	Revocations RevocationStoreConfig `yaml:"revocations"`
}

// UserStoreConfig contains user store settings.
type UserStoreConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// Path is the SQLite database file, used when Backend is "sqlite".
	Path string `yaml:"path"`
}

// RevocationStoreConfig contains revocation denylist settings.
type RevocationStoreConfig struct {
	// Backend is "memory" or "redis".
	Backend string `yaml:"backend"`

	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig contains Redis connection details.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ObserveConfig contains telemetry settings.
type ObserveConfig struct {
	ServiceName     string  `yaml:"service_name"`
	LogLevel        string  `yaml:"log_level"`
	Tracing         bool    `yaml:"tracing"`
	TracingExporter string  `yaml:"tracing_exporter"`
	SamplePct       float64 `yaml:"sample_pct"`
	Metrics         bool    `yaml:"metrics"`
	MetricsExporter string  `yaml:"metrics_exporter"`
}

// RoutePolicy grants a role set access to one route pattern.
type RoutePolicy struct {
	// Pattern is a chi route pattern, e.g. /api/orgs/{orgID}/units.
	Pattern string `yaml:"pattern"`

	// Methods limits the policy to the listed HTTP methods. Empty
	// means all methods.
	Methods []string `yaml:"methods"`

	// Roles is the explicit allow set. A role absent from the list is
	// denied even when it outranks every listed role.
	Roles []string `yaml:"roles"`
}

// Load reads configuration from a YAML file, applies environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Default returns a Config with working defaults for everything
// except the signing secret.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: ServerTimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Auth: AuthConfig{
			TokenTTL:          24 * 60,
			PrincipalCacheTTL: 5,
			StoreTimeout:      3,
		},
		Store: StoreConfig{
			Users:       UserStoreConfig{Backend: "memory"},
			Revocations: RevocationStoreConfig{Backend: "memory"},
		},
		Observe: ObserveConfig{
			ServiceName:     "stayauth",
			LogLevel:        "info",
			TracingExporter: "none",
			MetricsExporter: "none",
		},
	}
}

// applyEnvOverrides applies STAYAUTH_* environment variables on top of
// file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STAYAUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("STAYAUTH_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("STAYAUTH_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("STAYAUTH_SQLITE_PATH"); v != "" {
		cfg.Store.Users.Path = v
	}
	if v := os.Getenv("STAYAUTH_REDIS_ADDR"); v != "" {
		cfg.Store.Revocations.Redis.Addr = v
	}
	if v := os.Getenv("STAYAUTH_REDIS_PASSWORD"); v != "" {
		cfg.Store.Revocations.Redis.Password = v
	}
	if v := os.Getenv("STAYAUTH_LOG_LEVEL"); v != "" {
		cfg.Observe.LogLevel = v
	}
}

// Validate checks the configuration for startup errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}

	if c.Auth.Secret == "" {
		errs = append(errs, "auth.secret is required (set STAYAUTH_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, "auth.token_ttl must be positive")
	}
	if c.Auth.StoreTimeout <= 0 {
		errs = append(errs, "auth.store_timeout must be positive")
	}

	switch c.Store.Users.Backend {
	case "memory":
	case "sqlite":
		if c.Store.Users.Path == "" {
			errs = append(errs, "store.users.path is required for the sqlite backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.users.backend must be memory or sqlite, got %q", c.Store.Users.Backend))
	}

	switch c.Store.Revocations.Backend {
	case "memory":
	case "redis":
		if c.Store.Revocations.Redis.Addr == "" {
			errs = append(errs, "store.revocations.redis.addr is required for the redis backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.revocations.backend must be memory or redis, got %q", c.Store.Revocations.Backend))
	}

	for i, route := range c.Routes {
		if route.Pattern == "" {
			errs = append(errs, fmt.Sprintf("routes[%d].pattern is required", i))
		}
		if len(route.Roles) == 0 {
			errs = append(errs, fmt.Sprintf("routes[%d].roles must not be empty", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ResolveSecret resolves the configured signing secret through the
// resolver, expanding ${VAR} references and secretref indirection, and
// enforces the minimum key length. The resolved material is returned
// to the caller and never stored back on the Config.
func (c *Config) ResolveSecret(ctx context.Context, r *secret.Resolver) ([]byte, error) {
	material, err := r.ResolveValue(ctx, c.Auth.Secret)
	if err != nil {
		return nil, fmt.Errorf("resolving auth.secret: %w", err)
	}
	if len(material) < MinSecretLength {
		return nil, fmt.Errorf("auth.secret must resolve to at least %d bytes", MinSecretLength)
	}
	return []byte(material), nil
}

// TokenTTL returns the session token lifetime as a Duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTL) * time.Minute
}

// PrincipalCacheTTL returns the resolver cache staleness bound as a
// Duration. Negative disables caching.
func (c *Config) PrincipalCacheTTL() time.Duration {
	return time.Duration(c.Auth.PrincipalCacheTTL) * time.Second
}

// StoreTimeout returns the store lookup bound as a Duration.
func (c *Config) StoreTimeout() time.Duration {
	return time.Duration(c.Auth.StoreTimeout) * time.Second
}

// ReadTimeout returns the HTTP read timeout as a Duration.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Read) * time.Second
}

// WriteTimeout returns the HTTP write timeout as a Duration.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Write) * time.Second
}

// IdleTimeout returns the HTTP idle timeout as a Duration.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Idle) * time.Second
}

// ObserveConfig converts the telemetry section to the observe
// package's configuration type.
func (c *Config) ObserveConfig() observe.Config {
	return observe.Config{
		ServiceName: c.Observe.ServiceName,
		Tracing: observe.TracingConfig{
			Enabled:   c.Observe.Tracing,
			Exporter:  c.Observe.TracingExporter,
			SamplePct: c.Observe.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Observe.Metrics,
			Exporter: c.Observe.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.Observe.LogLevel,
		},
	}
}
