package site

import (
	"net/url"
	"strings"
)

// LinkKey names one entry of Links.
type LinkKey string

const (
	LinkTwitter      LinkKey = "twitter"
	LinkGitHub       LinkKey = "github"
	LinkPersonalSite LinkKey = "personalSite"
)

var linkKeys = [...]LinkKey{LinkTwitter, LinkGitHub, LinkPersonalSite}

// LinkKeys returns the closed set of link keys in display order. The
// slice is a fresh copy on every call.
func LinkKeys() []LinkKey {
	keys := linkKeys
	return keys[:]
}

// Link is a single key/URL pair from Links.
type Link struct {
	Key LinkKey
	URL string
}

// Label returns a human readable name for the footer.
func (k LinkKey) Label() string {
	switch k {
	case LinkTwitter:
		return "Twitter"
	case LinkGitHub:
		return "GitHub"
	case LinkPersonalSite:
		return "Website"
	}
	return string(k)
}

// Get returns the URL stored under key. The bool is false for keys
// outside LinkKeys().
func (l Links) Get(key LinkKey) (string, bool) {
	switch key {
	case LinkTwitter:
		return l.Twitter, true
	case LinkGitHub:
		return l.GitHub, true
	case LinkPersonalSite:
		return l.PersonalSite, true
	}
	return "", false
}

// All returns every link in LinkKeys() order.
func (l Links) All() []Link {
	out := make([]Link, 0, len(linkKeys))
	for _, k := range linkKeys {
		u, _ := l.Get(k)
		out = append(out, Link{Key: k, URL: u})
	}
	return out
}

// TwitterHandle returns "@user" for a twitter.com or x.com profile URL,
// or "" when the link does not look like one.
func (l Links) TwitterHandle() string {
	u, err := url.Parse(l.Twitter)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if host != "twitter.com" && host != "x.com" {
		return ""
	}
	user, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	if user == "" {
		return ""
	}
	return "@" + user
}
