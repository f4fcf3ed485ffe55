package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DaemonConfig holds configuration for the wgwd sync daemon. Intervals mirror
// the mobile client's behavior: a short settle delay after reconnects, a
// five-minute session check, a ten-minute refresh threshold.
type DaemonConfig struct {
	APIBaseURL string `envconfig:"WGW_API_URL" default:"http://localhost:8080"`
	DataDir    string `envconfig:"WGW_DATA_DIR" default:"./wgwd-data"`
	// CryptoKey encrypts the cached refresh token at rest; 32 bytes.
	CryptoKey string `envconfig:"WGW_CRYPTO_KEY" required:"true"`

	ProbeInterval    time.Duration `envconfig:"WGW_PROBE_INTERVAL" default:"15s"`
	SettleDelay      time.Duration `envconfig:"WGW_SETTLE_DELAY" default:"2s"`
	SessionInterval  time.Duration `envconfig:"WGW_SESSION_INTERVAL" default:"5m"`
	RefreshThreshold time.Duration `envconfig:"WGW_REFRESH_THRESHOLD" default:"10m"`
	RefreshCooldown  time.Duration `envconfig:"WGW_REFRESH_COOLDOWN" default:"60s"`
	RefreshBackoff   time.Duration `envconfig:"WGW_REFRESH_BACKOFF" default:"2s"`
}

// LoadDaemon reads daemon configuration from environment variables
func LoadDaemon() (*DaemonConfig, error) {
	var cfg DaemonConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process daemon config: %w", err)
	}
	if len(cfg.CryptoKey) != 32 {
		return nil, fmt.Errorf("WGW_CRYPTO_KEY must be 32 bytes (got %d)", len(cfg.CryptoKey))
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("WGW_API_URL must not be empty")
	}
	return &cfg, nil
}
