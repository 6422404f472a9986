package blog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// ServerConfig holds runtime settings for the HTTP server. Site metadata
// is not configurable here; it always comes from the site package.
type ServerConfig struct {
	Addr            string        // Listen address (default ":3000")
	ContentDir      string        // Markdown posts directory (default "content/posts")
	StaticDir       string        // User static assets (default "public")
	PostCacheTTL    time.Duration // Post cache TTL (default 5min)
	WatchContent    bool          // Invalidate the cache when posts change on disk
	LogLevel        string        // debug, info, warn, error (default "info")
	ShutdownTimeout time.Duration // Graceful shutdown limit (default 10s)
}

func (c *ServerConfig) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/posts"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// Validate checks the config after defaults have been applied.
func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.StaticDir, validation.Required),
		validation.Field(&c.PostCacheTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.ShutdownTimeout, validation.Min(time.Second)),
	)
}

// LoadConfigFromEnv builds a ServerConfig from environment variables.
// A .env file in the working directory is loaded first if present;
// variables already set in the environment win.
func LoadConfigFromEnv() (ServerConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ServerConfig{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := ServerConfig{
		Addr:       EnvOr("ADDR", ""),
		ContentDir: EnvOr("CONTENT_DIR", ""),
		StaticDir:  EnvOr("STATIC_DIR", ""),
		LogLevel:   strings.ToLower(EnvOr("LOG_LEVEL", "")),
	}

	var err error
	if cfg.PostCacheTTL, err = envDuration("POST_CACHE_TTL"); err != nil {
		return ServerConfig{}, err
	}
	if cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT"); err != nil {
		return ServerConfig{}, err
	}
	if v := os.Getenv("WATCH_CONTENT"); v != "" {
		cfg.WatchContent, err = strconv.ParseBool(v)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("WATCH_CONTENT: %w", err)
		}
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func envDuration(key string) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir overrides ServerConfig.StaticDir.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithContentFS reads posts from fsys instead of ServerConfig.ContentDir.
// The file watcher is disabled since there is no directory to watch.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithLogger replaces the logger built from ServerConfig.LogLevel.
func WithLogger(logger *log.Logger) Option {
	return func(a *App) {
		a.Logger = logger
	}
}
