// Package content loads blog posts from Markdown files with YAML
// frontmatter and keeps a short-lived in-memory copy of them.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the frontmatter date format.
const DateLayout = "2006-01-02"

var (
	// ErrNotFound is returned when a requested post does not exist or is a draft.
	ErrNotFound = errors.New("post not found")
	// ErrInvalidPost is returned when a post file cannot be parsed.
	ErrInvalidPost = errors.New("invalid post")
)

// Post is a single Markdown article.
type Post struct {
	Slug        string
	Title       string
	Description string
	Date        time.Time
	Tags        []string
	Published   bool
	Body        string
}

// DateString returns the post date as YYYY-MM-DD.
func (p Post) DateString() string {
	if p.Date.IsZero() {
		return ""
	}
	return p.Date.Format(DateLayout)
}

type frontmatter struct {
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Published   *bool    `yaml:"published"`
}

// Parse builds a Post from raw file contents. slug is used unless the
// frontmatter sets its own. Posts are published unless they say otherwise.
func Parse(slug string, data []byte) (Post, error) {
	block, body, ok := splitFrontmatter(data)
	if !ok {
		return Post{}, fmt.Errorf("%w: %s: missing frontmatter", ErrInvalidPost, slug)
	}

	var fm frontmatter
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return Post{}, fmt.Errorf("%w: %s: %v", ErrInvalidPost, slug, err)
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		return Post{}, fmt.Errorf("%w: %s: title is required", ErrInvalidPost, slug)
	}

	var date time.Time
	if d := strings.TrimSpace(fm.Date); d != "" {
		t, err := time.Parse(DateLayout, d)
		if err != nil {
			return Post{}, fmt.Errorf("%w: %s: date %q: use YYYY-MM-DD", ErrInvalidPost, slug, d)
		}
		date = t
	}

	if s := Slugify(fm.Slug); s != "" {
		slug = s
	}

	published := true
	if fm.Published != nil {
		published = *fm.Published
	}

	return Post{
		Slug:        slug,
		Title:       title,
		Description: strings.TrimSpace(fm.Description),
		Date:        date,
		Tags:        filterEmpty(fm.Tags),
		Published:   published,
		Body:        body,
	}, nil
}

// splitFrontmatter separates the YAML block between leading "---" lines
// from the Markdown body.
func splitFrontmatter(data []byte) ([]byte, string, bool) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r\ufeff")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, "", false
	}
	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, "", false
	}
	block := rest[:idx]
	after := rest[idx+1+len(delim):]
	return block, strings.TrimLeft(string(after), "\n\r"), true
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func filterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
