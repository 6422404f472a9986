// Package site holds the blog's display metadata: name, canonical URL,
// description, author and the author's profile links.
//
// The record is fixed at compile time. Get returns it by value and every
// field is a string, so callers may read it from any goroutine without
// synchronization and cannot change what other callers see.
package site

// Config is the shape of the site metadata record. JSON tags keep the
// keys used by the front end that consumes /site.json.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`
	Author      string `json:"author" yaml:"author"`
	Links       Links  `json:"links" yaml:"links"`
}

// Links are the author's external profiles, one field per LinkKey.
type Links struct {
	Twitter      string `json:"twitter" yaml:"twitter"`
	GitHub       string `json:"github" yaml:"github"`
	PersonalSite string `json:"personalSite" yaml:"personalSite"`
}

var siteConfig = Config{
	Name:        "Jaeha",
	URL:         "https://example.com",
	Description: "Nextjs 14 blog using velite, tailwind and shadcn",
	Author:      "Jaeha",
	Links: Links{
		Twitter:      "https://twitter.com/miniapp223",
		GitHub:       "https://github.com/jaehafe",
		PersonalSite: "https://github.com/jaehafe",
	},
}

// Get returns the site metadata record.
func Get() Config {
	return siteConfig
}
