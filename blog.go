// Package blog serves a personal blog built with Go, Echo, and templ.
// Posts are Markdown files; site branding comes from the compiled-in
// record in the site package and feeds page titles, meta tags, footer
// links, JSON-LD, RSS, and the sitemap.
package blog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/jaehafe/blog/content"
	"github.com/jaehafe/blog/site"
)

// App wires together the site record, post store, cache, and HTTP routes.
type App struct {
	Config ServerConfig
	Site   site.Config
	Echo   *echo.Echo
	Store  *content.Store
	Cache  *content.PostCache
	Logger *log.Logger

	contentFS    fs.FS
	customRoutes []func(*App)
	exactRoutes  []string
	ready        bool
}

// New creates an App with the given server configuration.
func New(cfg ServerConfig, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config: cfg,
		Site:   site.Get(),
		Echo:   e,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = NewLogger(os.Stderr, a.Config.LogLevel)
	}
	return a
}

// Init validates configuration, loads content once, and registers
// middleware and routes. Start calls it; tests call it directly and use
// Handler. Calling it again is a no-op.
func (a *App) Init() error {
	if a.ready {
		return nil
	}
	if err := a.Site.Validate(); err != nil {
		return fmt.Errorf("blog: site metadata: %w", err)
	}
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("blog: config: %w", err)
	}

	fsys := a.contentFS
	if fsys == nil {
		info, err := os.Stat(a.Config.ContentDir)
		if err != nil {
			return fmt.Errorf("blog: content dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("blog: content dir %q is not a directory", a.Config.ContentDir)
		}
		fsys = os.DirFS(a.Config.ContentDir)
	}
	a.Store = content.NewStore(fsys)

	// Fail fast on malformed posts instead of on the first request.
	posts, err := a.Store.LoadAll()
	if err != nil {
		return fmt.Errorf("blog: load content: %w", err)
	}
	a.Logger.Info("content loaded", "posts", len(posts))

	a.Cache = content.NewPostCache(a.Store, a.Config.PostCacheTTL)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.collectExactRoutes()
	a.ready = true
	return nil
}

// Handler returns the HTTP handler. Init must have succeeded.
func (a *App) Handler() http.Handler {
	return a.Echo
}

// Start initializes the app and serves until ctx is cancelled, then shuts
// the server down gracefully within ServerConfig.ShutdownTimeout.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}

	if a.Config.WatchContent && a.contentFS == nil {
		go func() {
			err := content.Watch(ctx, a.Config.ContentDir, a.Logger, func(path string) {
				a.Logger.Info("content changed, invalidating cache", "path", path)
				a.Cache.Invalidate()
			})
			if err != nil {
				a.Logger.Error("content watcher failed", "err", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("listening", "addr", a.Config.Addr, "site", a.Site.URL)
		errCh <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("blog: shutdown: %w", err)
	}
	return nil
}
