package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/halewick/tradeportal-backend/internal/pkg/envutil"
)

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.Name)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	TierTTL  int    `yaml:"tier_ttl_seconds"`
	Disabled bool   `yaml:"disabled"`
}

type JWTConfig struct {
	Secret   string `yaml:"secret"`
	TokenTTL int    `yaml:"token_ttl_seconds"`
}

type CartConfig struct {
	MutationTimeoutSeconds int `yaml:"mutation_timeout_seconds"`
}

type Config struct {
	Port     string         `yaml:"port"`
	LogMode  string         `yaml:"log_mode"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Cart     CartConfig     `yaml:"cart"`
}

// Load reads the optional YAML file named by CONFIG_FILE, then overlays
// environment variables. Env always wins so deployments can override a
// checked-in file per instance.
func Load() (*Config, error) {
	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	cfg.overlayEnv()
	return cfg, nil
}

func (c *Config) overlayEnv() {
	c.Port = envutil.Str("PORT", fallback(c.Port, "8080"))
	c.LogMode = envutil.Str("LOG_MODE", fallback(c.LogMode, "development"))

	c.Postgres.Host = envutil.Str("POSTGRES_HOST", fallback(c.Postgres.Host, "localhost"))
	c.Postgres.Port = envutil.Str("POSTGRES_PORT", fallback(c.Postgres.Port, "5432"))
	c.Postgres.User = envutil.Str("POSTGRES_USER", fallback(c.Postgres.User, "postgres"))
	c.Postgres.Password = envutil.Str("POSTGRES_PASSWORD", c.Postgres.Password)
	c.Postgres.Name = envutil.Str("POSTGRES_NAME", fallback(c.Postgres.Name, "tradeportal"))

	c.Redis.Addr = envutil.Str("REDIS_ADDR", c.Redis.Addr)
	if c.Redis.TierTTL == 0 {
		c.Redis.TierTTL = 300
	}
	c.Redis.TierTTL = envutil.Int("REDIS_TIER_TTL_SECONDS", c.Redis.TierTTL)

	c.JWT.Secret = envutil.Str("JWT_SECRET_KEY", fallback(c.JWT.Secret, "defaultsecret"))
	if c.JWT.TokenTTL == 0 {
		c.JWT.TokenTTL = 3600
	}
	c.JWT.TokenTTL = envutil.Int("ACCESS_TOKEN_TTL", c.JWT.TokenTTL)

	if c.Cart.MutationTimeoutSeconds == 0 {
		c.Cart.MutationTimeoutSeconds = 10
	}
	c.Cart.MutationTimeoutSeconds = envutil.Int("CART_MUTATION_TIMEOUT_SECONDS", c.Cart.MutationTimeoutSeconds)
}

func (c *Config) MutationTimeout() time.Duration {
	return time.Duration(c.Cart.MutationTimeoutSeconds) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.TokenTTL) * time.Second
}

func (c *Config) TierTTL() time.Duration {
	return time.Duration(c.Redis.TierTTL) * time.Second
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
