package views

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/jaehafe/blog/content"
	"github.com/jaehafe/blog/site"
)

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// PageTitle returns "title | site name", or the site name alone.
func PageTitle(cfg site.Config, title string) string {
	if title == "" {
		return cfg.Name
	}
	return title + " | " + cfg.Name
}

// FilterRelatedPosts returns posts that share at least one tag with the current post.
func FilterRelatedPosts(current content.Post, posts []content.Post) []content.Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []content.Post
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			tag := strings.ToLower(strings.TrimSpace(t))
			if _, ok := tagSet[tag]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// PathEscape wraps url.PathEscape for use in templates.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

func tagHref(tag string) string {
	return "/?tag=" + url.QueryEscape(tag)
}

func postHref(slug string) string {
	return "/blog/" + PathEscape(slug) + "/"
}

func copyright(cfg site.Config) string {
	return fmt.Sprintf("© %d %s", time.Now().Year(), cfg.Author)
}

func homeMeta(cfg site.Config, activeTag string) PageMeta {
	meta := PageMeta{URL: BuildURL(cfg.URL)}
	if activeTag != "" {
		meta.Title = "#" + activeTag
	}
	return meta
}

func postMeta(cfg site.Config, post content.Post) PageMeta {
	return PageMeta{
		Title:       post.Title,
		Description: post.Description,
		URL:         BuildURL(cfg.URL, "blog", post.Slug),
		OGType:      "article",
		JSONLD:      BlogPostingJsonLD(cfg, post),
	}
}

// jsonLD emits a JSON-LD script tag. data must already be JSON encoded;
// encoding/json escapes '<' so the payload cannot close the tag.
func jsonLD(data string) templ.Component {
	return templ.Raw(`<script type="application/ld+json">` + data + `</script>`)
}

// JoinTags formats a tag slice as a comma-separated string.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

func authorJSON(cfg site.Config) map[string]interface{} {
	person := map[string]interface{}{
		"@type": "Person",
		"name":  cfg.Author,
	}
	var sameAs []string
	seen := make(map[string]struct{})
	for _, l := range cfg.Links.All() {
		if l.URL == "" {
			continue
		}
		if _, ok := seen[l.URL]; ok {
			continue
		}
		seen[l.URL] = struct{}{}
		sameAs = append(sameAs, l.URL)
	}
	if len(sameAs) > 0 {
		person["sameAs"] = sameAs
	}
	return person
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
// The author's profile links become Person.sameAs.
func WebsiteJsonLD(cfg site.Config) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = authorJSON(cfg)
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(cfg site.Config, post content.Post) string {
	postURL := BuildURL(cfg.URL, "blog", post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Description,
		"datePublished": post.DateString(),
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.Author != "" {
		data["author"] = authorJSON(cfg)
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
