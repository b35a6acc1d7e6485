// Package config loads server configuration from the environment and builds
// the content service from it.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/tendant/simple-blog/pkg/simpleblog"
	rediscache "github.com/tendant/simple-blog/pkg/simpleblog/cache/redis"
	"github.com/tendant/simple-blog/pkg/simpleblog/repo/memory"
	repopg "github.com/tendant/simple-blog/pkg/simpleblog/repo/postgres"
)

// ServerConfig represents server configuration for the simple-blog service.
//
// DATABASE_URL selects the repository: empty or "memory" uses the in-memory
// repository, a postgresql:// / postgres:// URL uses PostgreSQL. REDIS_URL,
// when set, enables the post view cache.
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string `env:"DATABASE_TYPE"` // "memory", "postgres"; auto-detected from DATABASE_URL when empty

	RedisURL     string        `env:"REDIS_URL"`
	PostCacheTTL time.Duration `env:"POST_CACHE_TTL" env-default:"5m"`

	// JWTSecret is the HS256 key shared with the authentication service that
	// mints author tokens.
	JWTSecret string `env:"JWT_SECRET" env-default:"dev-only-secret"`
}

// Load reads configuration from the environment and validates it
func Load() (*ServerConfig, error) {
	cfg := &ServerConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if cfg.DatabaseType == "" {
		if err := detectDatabaseType(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func detectDatabaseType(cfg *ServerConfig) error {
	switch {
	case cfg.DatabaseURL == "" || cfg.DatabaseURL == "memory":
		cfg.DatabaseType = "memory"
		cfg.DatabaseURL = ""
	case strings.HasPrefix(cfg.DatabaseURL, "postgresql://"),
		strings.HasPrefix(cfg.DatabaseURL, "postgres://"):
		cfg.DatabaseType = "postgres"
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", cfg.DatabaseURL)
	}
	return nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if c.Environment == "production" && c.JWTSecret == "dev-only-secret" {
		return errors.New("jwt_secret must be set explicitly in production")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context) (simpleblog.Service, error) {
	repo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}
	options := []simpleblog.Option{simpleblog.WithRepository(repo)}

	if c.RedisURL != "" {
		cache, err := c.buildViewCache(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to build view cache: %w", err)
		}
		options = append(options, simpleblog.WithViewCache(cache))
	}

	return simpleblog.New(options...)
}

func (c *ServerConfig) buildRepository(ctx context.Context) (simpleblog.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func (c *ServerConfig) buildViewCache(ctx context.Context) (simpleblog.ViewCache, error) {
	opts, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return rediscache.New(client, c.PostCacheTTL), nil
}
