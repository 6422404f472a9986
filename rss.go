package blog

import (
	"encoding/xml"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jaehafe/blog/content"
	"github.com/jaehafe/blog/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	Copyright     string    `xml:"copyright,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

func (a *App) renderRSS(c echo.Context, posts []content.Post) error {
	base := a.Site.URL
	items := make([]rssItem, 0, len(posts))
	var newest time.Time
	for _, p := range posts {
		pubDate := ""
		if !p.Date.IsZero() {
			pubDate = p.Date.Format(time.RFC1123Z)
			if p.Date.After(newest) {
				newest = p.Date
			}
		}
		postURL := views.BuildURL(base, "blog", p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Description,
			PubDate:     pubDate,
			GUID:        postURL,
			Categories:  p.Tags,
		})
	}
	channel := rssChannel{
		Title:       a.Site.Name,
		Link:        views.BuildURL(base),
		Description: a.Site.Description,
		Language:    "en",
		Items:       items,
	}
	if a.Site.Author != "" {
		channel.Copyright = "© " + a.Site.Author
	}
	if !newest.IsZero() {
		channel.LastBuildDate = newest.Format(time.RFC1123Z)
	}
	return writeXML(c, "application/rss+xml; charset=utf-8", rssXML{Version: "2.0", Channel: channel})
}

func writeXML(c echo.Context, contentType string, v any) error {
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(v)
}

// absURL joins a file name onto base without adding a trailing slash.
func absURL(base, name string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "/" + name
	}
	u.Path = path.Join("/", u.Path, name)
	return u.String()
}
