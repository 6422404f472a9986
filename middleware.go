package blog

import (
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			a.Logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"ip", v.RemoteIP,
			)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/public/") &&
				!strings.HasSuffix(c.Request().URL.Path, ".css")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			return a.keepsPath(c.Request().URL.Path)
		},
	}))

	e.Use(cacheControlMiddleware)
}

// keepsPath reports paths that must not get a trailing slash: the root,
// anything that looks like a file, and routes registered without one.
func (a *App) keepsPath(p string) bool {
	if p == "/" || path.Ext(p) != "" {
		return true
	}
	for _, route := range a.exactRoutes {
		if routeMatches(route, p) {
			return true
		}
	}
	return false
}

// collectExactRoutes snapshots registered route patterns that do not end
// in a slash. Init calls it after the custom routes are added.
func (a *App) collectExactRoutes() {
	a.exactRoutes = a.exactRoutes[:0]
	for _, r := range a.Echo.Routes() {
		if !strings.HasSuffix(r.Path, "/") {
			a.exactRoutes = append(a.exactRoutes, r.Path)
		}
	}
}

// routeMatches matches p against an Echo route pattern with :param and
// trailing * segments.
func routeMatches(route, p string) bool {
	rs := strings.Split(route, "/")
	ps := strings.Split(p, "/")
	for i, seg := range rs {
		if prefix, ok := strings.CutSuffix(seg, "*"); ok {
			return i < len(ps) && strings.HasPrefix(ps[i], prefix)
		}
		if i >= len(ps) {
			return false
		}
		if strings.HasPrefix(seg, ":") {
			if ps[i] == "" {
				return false
			}
			continue
		}
		if seg != ps[i] {
			return false
		}
	}
	return len(rs) == len(ps)
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case strings.HasPrefix(path, "/public/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt" || path == "/site.json":
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		default:
			c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		}
		return next(c)
	}
}
