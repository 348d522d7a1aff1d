package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	Timezone  string `env:"TIMEZONE,  default=UTC"`

	Users UsersConfig
	Audit AuditConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type UsersConfig struct {
	// Roles is the accepted role set, comma separated.
	Roles      []string `env:"USER_ROLES,  default=admin,employee,client"`
	BcryptCost int      `env:"BCRYPT_COST, default=12"`
	// AllowPurge registers DELETE /admin/users. Off unless set explicitly.
	AllowPurge bool `env:"ALLOW_PURGE, default=false"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_directory"`
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED,  default=false"`
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	ClaimTTL time.Duration `env:"CLAIM_TTL,      default=30s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" && c.Env != "development" {
		return errors.New("JWT_SECRET is required outside development")
	}
	if len(c.Users.Roles) == 0 {
		return errors.New("USER_ROLES must name at least one role")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
