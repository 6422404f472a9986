package blog

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jaehafe/blog/content"
	"github.com/jaehafe/blog/views"
)

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/public/styles.css", a.handleStyles)
	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/site.json", a.handleSite)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)
}

func (a *App) handleHome(c echo.Context) error {
	tag := strings.TrimSpace(c.QueryParam("tag"))
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	if c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == "posts" {
		return Render(c, views.PostList(posts, tag, tags))
	}
	return Render(c, views.Home(a.Site, posts, tag, tags))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Cache.GetPost(slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.Site))
		}
		return err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return Render(c, views.Post(a.Site, post, posts))
}

// handleSite exposes the site metadata record with its original keys.
func (a *App) handleSite(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Site)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.Config.StaticDir, "favicon.svg"))
}

// handleStyles serves the user's stylesheet if present, else the embedded default.
func (a *App) handleStyles(c echo.Context) error {
	userCSS := filepath.Join(a.Config.StaticDir, "styles.css")
	if info, err := os.Stat(userCSS); err == nil && !info.IsDir() {
		return c.File(userCSS)
	}
	data, err := fs.ReadFile(EmbeddedAssets, "embedded/styles.css")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", data)
}

// handleRobots generates robots.txt pointing crawlers at the sitemap.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", absURL(a.Site.URL, "sitemap.xml"))
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.Site))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "method", c.Request().Method, "uri", c.Request().RequestURI, "err", err)
		_ = RenderStatus(c, code, views.ServerError(a.Site))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
