package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds the startup configuration. It is populated once from the
// environment and passed by reference; nothing reads env vars after Load.
type Config struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Pool      string `mapstructure:"pool"`
	ReleaseID string `mapstructure:"release_id"`
	LogLevel  string `mapstructure:"log_level"`

	// ChaosMaxHang bounds how long a timeout-mode request may stay open.
	// Zero means no bound: the connection hangs until the caller gives up.
	ChaosMaxHang time.Duration `mapstructure:"chaos_max_hang"`

	// ShutdownGrace is how long in-flight requests get to finish after a
	// termination signal before remaining connections are severed.
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

// envBindings maps config keys to the environment variables they read from.
var envBindings = map[string]string{
	"host":           "HOST",
	"port":           "PORT",
	"pool":           "APP_POOL",
	"release_id":     "RELEASE_ID",
	"log_level":      "LOG_LEVEL",
	"chaos_max_hang": "CHAOS_MAX_HANG",
	"shutdown_grace": "SHUTDOWN_GRACE",
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("host", "")
	v.SetDefault("port", 3000)
	v.SetDefault("pool", "unknown")
	v.SetDefault("release_id", "unknown")
	v.SetDefault("log_level", "info")
	v.SetDefault("chaos_max_hang", time.Duration(0))
	v.SetDefault("shutdown_grace", 10*time.Second)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.Port < 1 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be in 1-65535", config.Port)
	}
	if config.ChaosMaxHang < 0 {
		return nil, fmt.Errorf("invalid chaos max hang %s: must not be negative", config.ChaosMaxHang)
	}
	if config.ShutdownGrace <= 0 {
		return nil, fmt.Errorf("invalid shutdown grace %s: must be positive", config.ShutdownGrace)
	}

	return &config, nil
}

// Addr returns the listen address in host:port form. An empty host binds
// all interfaces.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
