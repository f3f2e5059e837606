package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all taxestimator configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Tax       TaxConfig       `toml:"tax"`
	Cache     CacheConfig     `toml:"cache"`
	History   HistoryConfig   `toml:"history"`
	Log       LogConfig       `toml:"log"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	IdleTimeout  Duration `toml:"idle_timeout"`
}

// RateLimitConfig sizes the per-client token bucket. Capacity 0 disables it.
type RateLimitConfig struct {
	Capacity int      `toml:"capacity"`
	Refill   Duration `toml:"refill"`
}

type TaxConfig struct {
	Schedule string `toml:"schedule"` // "simplified" or "detailed"
}

type CacheConfig struct {
	Backend   string   `toml:"backend"` // "none", "memory" or "redis"
	RedisAddr string   `toml:"redis_addr,omitempty"`
	TTL       Duration `toml:"ttl"`
}

type HistoryConfig struct {
	Backend string `toml:"backend"` // "memory" or "sqlite"
	Path    string `toml:"path,omitempty"`
}

type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// Duration is a time.Duration that reads and writes as "15s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{15 * time.Second},
			IdleTimeout:  Duration{60 * time.Second},
		},
		RateLimit: RateLimitConfig{
			Capacity: 5,
			Refill:   Duration{time.Minute},
		},
		Tax: TaxConfig{
			Schedule: "simplified",
		},
		Cache: CacheConfig{
			Backend:   "none",
			RedisAddr: "localhost:6379",
			TTL:       Duration{10 * time.Minute},
		},
		History: HistoryConfig{
			Backend: "memory",
			Path:    filepath.Join(DataDir(), "history.db"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taxestimator")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "taxestimator")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "taxestimator")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "taxestimator")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path (ConfigPath when empty), returning
// defaults if it doesn't exist, then applies environment overrides. A .env
// file in the working directory is loaded first if present.
func Load(path string) (Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	if path == "" {
		path = ConfigPath()
	}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Save writes the config to path.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func applyEnv(cfg *Config) error {
	str := map[string]*string{
		"TAX_ADDR":            &cfg.Server.Addr,
		"TAX_SCHEDULE":        &cfg.Tax.Schedule,
		"TAX_CACHE_BACKEND":   &cfg.Cache.Backend,
		"TAX_REDIS_ADDR":      &cfg.Cache.RedisAddr,
		"TAX_HISTORY_BACKEND": &cfg.History.Backend,
		"TAX_HISTORY_PATH":    &cfg.History.Path,
		"LOG_LEVEL":           &cfg.Log.Level,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("TAX_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TAX_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit.Capacity = n
	}
	if v := os.Getenv("LOG_JSON"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOG_JSON: %w", err)
		}
		cfg.Log.JSON = b
	}
	return nil
}

// Validate rejects backend names the server would not know how to build.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	switch c.History.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("history.backend: unknown backend %q", c.History.Backend)
	}
	if c.History.Backend == "sqlite" && c.History.Path == "" {
		return fmt.Errorf("history.path is required for the sqlite backend")
	}
	if c.RateLimit.Capacity < 0 {
		return fmt.Errorf("rate_limit.capacity must not be negative")
	}
	return nil
}
