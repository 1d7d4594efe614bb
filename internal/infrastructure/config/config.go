package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// BackendURL is the base URL every endpoint path is resolved against.
	BackendURL     string        `env:"ADMINCTL_BACKEND_URL,     default=http://localhost:8000"`
	RequestTimeout time.Duration `env:"ADMINCTL_REQUEST_TIMEOUT, default=15s"`
	// StateDirOverride points the session file somewhere other than the
	// per-user config directory (resolved by StateDir).
	StateDirOverride string `env:"ADMINCTL_STATE_DIR"`
	LogLevel         string `env:"ADMINCTL_LOG_LEVEL, default=info"`

	Sandbox SandboxConfig
}

// SandboxConfig drives the embedded development backend.
type SandboxConfig struct {
	Port        string        `env:"SANDBOX_PORT,        default=8000"`
	Environment string        `env:"SANDBOX_ENV,         default=sandbox"`
	JWTSecret   string        `env:"SANDBOX_JWT_SECRET,  default=sandbox-secret"`
	TokenTTL    time.Duration `env:"SANDBOX_TOKEN_TTL,   default=24h"`
	AdminEmail  string        `env:"SANDBOX_ADMIN_EMAIL, default=admin@example.com"`
	AdminPass   string        `env:"SANDBOX_ADMIN_PASS,  default=admin1234"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// StateDir resolves the directory the session file lives in.
func (c *Config) StateDir() (string, error) {
	if c.StateDirOverride != "" {
		return c.StateDirOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve state dir: %w", err)
	}
	return filepath.Join(base, "adminctl"), nil
}
