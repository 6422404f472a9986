// Package views renders the blog's HTML pages as templ components. Every
// page is wrapped in Layout, which takes the site record for the <head>
// metadata and the footer links.
package views

import "github.com/jaehafe/blog/site"

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string // page title; empty on the home page
	Description string // falls back to the site description
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string // extra JSON-LD block, e.g. BlogPosting
}

func (m PageMeta) description(cfg site.Config) string {
	if m.Description != "" {
		return m.Description
	}
	return cfg.Description
}

func (m PageMeta) canonical(cfg site.Config) string {
	if m.URL != "" {
		return m.URL
	}
	return BuildURL(cfg.URL)
}

func (m PageMeta) ogType() string {
	if m.OGType != "" {
		return m.OGType
	}
	return "website"
}
