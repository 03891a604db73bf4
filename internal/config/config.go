// Package config loads runtime settings from flags, ADHYAYA_* environment
// variables and an optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/adhyaya/adhyaya/internal/revision"
)

// Config holds the resolved settings for every command.
type Config struct {
	// DBPath is the SQLite database file. Empty means store.DefaultDBPath.
	DBPath  string
	Learner string
	LogMode string

	GracePeriod   time.Duration
	PassThreshold float64

	Server ServerConfig
	Redis  RedisConfig
	Update UpdateConfig

	// APIURL points the CLI at a remote backend instead of the local
	// database when set.
	APIURL string
	// CachePath is where the remote client keeps its last-known items.
	CachePath string
}

// ServerConfig configures `adhyaya serve`.
type ServerConfig struct {
	Addr            string
	RateLimit       float64 // requests per second per client, 0 disables
	RateBurst       int
	ShutdownTimeout time.Duration
}

// RedisConfig configures the optional summary cache.
type RedisConfig struct {
	Addr     string // empty disables Redis
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// UpdateConfig configures `adhyaya update`.
type UpdateConfig struct {
	Owner   string
	Repo    string
	Channel string // "stable" or "prerelease"
	Timeout time.Duration
}

// NewViper returns a viper instance with defaults and environment binding.
// Keys use dots for nesting; ADHYAYA_SERVER_ADDR maps to server.addr.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ADHYAYA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("db", "")
	v.SetDefault("learner", "default")
	v.SetDefault("log_mode", "dev")
	v.SetDefault("grace_period", revision.DefaultGracePeriod)
	v.SetDefault("pass_threshold", 0.6)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "adhyaya:")
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("update.owner", "adhyaya")
	v.SetDefault("update.repo", "adhyaya")
	v.SetDefault("update.channel", "stable")
	v.SetDefault("update.timeout", 2*time.Minute)
	v.SetDefault("api_url", "")
	v.SetDefault("cache_path", "")
	return v
}

// Load reads file (if non-empty) into v and resolves a validated Config.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{
		DBPath:        v.GetString("db"),
		Learner:       v.GetString("learner"),
		LogMode:       v.GetString("log_mode"),
		GracePeriod:   v.GetDuration("grace_period"),
		PassThreshold: v.GetFloat64("pass_threshold"),
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			RateLimit:       v.GetFloat64("server.rate_limit"),
			RateBurst:       v.GetInt("server.rate_burst"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Prefix:   v.GetString("redis.prefix"),
			TTL:      v.GetDuration("redis.ttl"),
		},
		Update: UpdateConfig{
			Owner:   v.GetString("update.owner"),
			Repo:    v.GetString("update.repo"),
			Channel: v.GetString("update.channel"),
			Timeout: v.GetDuration("update.timeout"),
		},
		APIURL:    v.GetString("api_url"),
		CachePath: v.GetString("cache_path"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Learner) == "" {
		return fmt.Errorf("learner must not be empty")
	}
	if c.GracePeriod < 0 {
		return fmt.Errorf("grace_period must not be negative, got %s", c.GracePeriod)
	}
	if c.PassThreshold < 0 || c.PassThreshold > 1 {
		return fmt.Errorf("pass_threshold must be within [0, 1], got %v", c.PassThreshold)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return fmt.Errorf("server.rate_burst must be at least 1 when rate limiting is on")
	}
	switch c.Update.Channel {
	case "stable", "prerelease":
	default:
		return fmt.Errorf("update.channel must be stable or prerelease, got %q", c.Update.Channel)
	}
	if strings.TrimSpace(c.Update.Owner) == "" || strings.TrimSpace(c.Update.Repo) == "" {
		return fmt.Errorf("update.owner and update.repo must not be empty")
	}
	if c.Update.Timeout <= 0 {
		return fmt.Errorf("update.timeout must be positive, got %s", c.Update.Timeout)
	}
	return nil
}

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}
