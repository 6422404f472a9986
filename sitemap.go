package blog

import (
	"encoding/xml"

	"github.com/labstack/echo/v4"

	"github.com/jaehafe/blog/content"
	"github.com/jaehafe/blog/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) renderSitemap(c echo.Context, posts []content.Post) error {
	base := a.Site.URL
	home := sitemapURL{Loc: views.BuildURL(base)}
	if len(posts) > 0 {
		home.LastMod = posts[0].DateString()
	}
	urls := []sitemapURL{home}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     views.BuildURL(base, "blog", p.Slug),
			LastMod: p.DateString(),
		})
	}
	return writeXML(c, "application/xml; charset=utf-8", sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}
