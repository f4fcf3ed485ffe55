package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all API server configuration
type Config struct {
	Env   string `envconfig:"APP_ENV" default:"development"`
	Port  int    `envconfig:"APP_PORT" default:"8080"`
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	AI    AIConfig
	Media MediaConfig
}

// database configuration
type DBConfig struct {
	DSN         string        `envconfig:"DATABASE_URL" required:"true"`
	MaxConns    int           `envconfig:"DB_MAX_CONNS" default:"20"`
	MaxConnLife time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// redis configuration, used for the per-user streak cache
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// JWT configuration
type JWTConfig struct {
	Secret     string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTTL  time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"1h"`
	RefreshTTL time.Duration `envconfig:"JWT_REFRESH_TOKEN_TTL" default:"720h"` // 30 days
}

// AI vendor configuration. Both endpoints speak the OpenAI wire shape.
type AIConfig struct {
	APIKey          string        `envconfig:"AI_API_KEY" required:"true"`
	BaseURL         string        `envconfig:"AI_BASE_URL" default:"https://api.openai.com/v1"`
	ChatModel       string        `envconfig:"AI_CHAT_MODEL" default:"gpt-4o-mini"`
	TranscribeModel string        `envconfig:"AI_TRANSCRIBE_MODEL" default:"whisper-1"`
	Timeout         time.Duration `envconfig:"AI_TIMEOUT" default:"30s"`
}

// media (object storage) configuration
type MediaConfig struct {
	Dir       string `envconfig:"MEDIA_DIR" default:"./media"`
	PublicURL string `envconfig:"MEDIA_PUBLIC_URL" default:"http://localhost:8080/media"`
}

// Load reads server configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	if c.DB.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.JWT.AccessTTL >= c.JWT.RefreshTTL {
		return fmt.Errorf("JWT_ACCESS_TOKEN_TTL (%s) must be shorter than JWT_REFRESH_TOKEN_TTL (%s)",
			c.JWT.AccessTTL, c.JWT.RefreshTTL)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
