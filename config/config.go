package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the frontend.
type Config struct {
	HTTPAddr        string
	APIBaseURL      string
	APITimeout      time.Duration
	ShutdownTimeout time.Duration

	StoreDriver   string
	StorePath     string
	RedisAddr     string
	RedisPassword string
	RedisPrefix   string

	CSRFKey      string
	SessionKey   string
	CookieSecure bool

	// ProfileCacheSize and ProfileIdleTTL bound the in-memory profiles.
	ProfileCacheSize int
	ProfileIdleTTL   time.Duration

	LogLevel  string
	LogFormat string

	B2KeyID  string
	B2AppKey string
	B2Bucket string
}

const (
	DriverBolt   = "bolt"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":3000"),
		APIBaseURL:      strings.TrimRight(getenv("API_BASE_URL", "http://localhost:5000/api"), "/"),
		APITimeout:      getenvDuration("API_TIMEOUT", 15*time.Second),
		ShutdownTimeout: getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		StoreDriver:   strings.ToLower(getenv("STORE_DRIVER", DriverBolt)),
		StorePath:     getenv("STORE_PATH", "data/coursehub.db"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisPrefix:   getenv("REDIS_PREFIX", "coursehub"),

		CSRFKey:      os.Getenv("CSRF_KEY"),
		SessionKey:   os.Getenv("SESSION_KEY"),
		CookieSecure: getenvBool("COOKIE_SECURE", false),

		ProfileCacheSize: getenvInt("PROFILE_CACHE_SIZE", 10000),
		ProfileIdleTTL:   getenvDuration("PROFILE_IDLE_TTL", 2*time.Hour),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "console"),

		B2KeyID:  os.Getenv("B2_KEY_ID"),
		B2AppKey: os.Getenv("B2_APP_KEY"),
		B2Bucket: os.Getenv("B2_BUCKET"),
	}

	switch cfg.StoreDriver {
	case DriverBolt, DriverRedis, DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.CSRFKey != "" && len(cfg.CSRFKey) != 32 {
		return Config{}, fmt.Errorf("CSRF_KEY must be 32 bytes, got %d", len(cfg.CSRFKey))
	}

	if cfg.SessionKey != "" && len(cfg.SessionKey) != 32 {
		return Config{}, fmt.Errorf("SESSION_KEY must be 32 bytes, got %d", len(cfg.SessionKey))
	}

	return cfg, nil
}

// UploadsEnabled reports whether all B2 credentials are present.
func (c Config) UploadsEnabled() bool {
	return c.B2KeyID != "" && c.B2AppKey != "" && c.B2Bucket != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// getenvDuration accepts Go durations ("15s") and also KEY_SECONDS integers.
func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	if v := os.Getenv(key + "_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
